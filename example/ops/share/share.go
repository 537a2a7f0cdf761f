package main

import (
	"fmt"

	"github.com/GoFurry/seafile-sdk-go/example"
	"github.com/GoFurry/seafile-sdk-go/pkg/seafile"
)

func main() {
	defer example.Cancel()

	// Star a file and list starred files
	// 收藏文件并列出收藏
	_, err := example.Session.StarFile(example.Ctx, example.Library, "/test/test.jpg")
	example.Must(err)
	starred, err := example.Session.ListStarredFiles(example.Ctx)
	example.Must(err)
	for _, f := range starred {
		fmt.Println("starred:", f.Path)
	}

	// Create a read-only share link valid for 7 days
	// 创建 7 天有效的只读共享链接
	link, err := example.Session.CreateShareLink(example.Ctx, example.Library, "/test/test.jpg", seafile.ShareLinkOptions{ExpireDays: 7})
	example.Must(err)
	fmt.Println("share link:", link.Link)

	// Create a group and add members in one call
	// 创建群组并批量添加成员
	groupID, err := example.Session.AddGroup(example.Ctx, "reviewers")
	example.Must(err)
	res, err := example.Session.BulkAddGroupMembers(example.Ctx, groupID, []string{"a@example.com", "b@example.com"})
	example.Must(err)
	fmt.Printf("added=%d failed=%d\n", len(res.Succeeded), len(res.Failed))
}
