package main

import (
	"fmt"

	"github.com/GoFurry/seafile-sdk-go/example"
	"github.com/GoFurry/seafile-sdk-go/pkg/seafile"
)

func main() {
	defer example.Cancel()

	// List files and directories under a path, filtered by glob
	// 列出指定路径下的文件和目录, 支持 glob 过滤
	entries, err := example.Session.ListDirectoryMatching(
		// Context for timeout/cancel control 用于控制超时和取消
		example.Ctx,
		// Library id 资料库 id
		example.Library,
		// Directory path to list 要列出的目录路径
		"/test/",
		// Name filter (include) 文件名过滤(包含)
		"",
		// Name filter (exclude) 文件名过滤(不包含)
		"*.tmp",
	)
	example.Must(err)

	// Iterate over results and print each entry
	// 遍历结果并打印每个文件或目录信息
	for _, e := range entries {
		fmt.Printf(
			"%s  dir=%v  size=%s\n",
			e.Path,                       // Full path 完整路径
			e.IsDir(),                    // Whether entry is a directory 是否为目录
			seafile.ReadableSize(e.Size), // Size of the file 文件大小
		)
	}
}
