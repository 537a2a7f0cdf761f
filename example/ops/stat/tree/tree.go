package main

import (
	"fmt"

	"github.com/GoFurry/seafile-sdk-go/example"
)

func main() {
	defer example.Cancel()

	// Walk a directory tree with 4 concurrent listings
	// 以 4 个并发列出请求遍历目录树
	entries, err := example.Session.ListTree(example.Ctx, example.Library, "/", 4)
	example.Must(err)

	var total int64
	for _, e := range entries {
		if !e.IsDir() {
			total += e.Size
		}
		fmt.Println(e.Path)
	}
	fmt.Printf("%d entries, %d MB\n", len(entries), total/1024/1024)
}
