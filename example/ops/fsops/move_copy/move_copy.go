package main

import (
	"fmt"

	"github.com/GoFurry/seafile-sdk-go/example"
)

func main() {
	defer example.Cancel()

	// Copy a file into another directory of the same library
	// 将文件复制到同一资料库的其他目录
	ok, err := example.Session.Copy(
		// Context for timeout/cancel control 用于控制超时和取消
		example.Ctx,
		// Source library 源资料库
		example.Library,
		// Source file path 源文件路径
		"/user/100/big_file.tar",
		// Target library, empty means the source library 目标资料库, 为空表示源资料库
		"",
		// Destination directory path 目标目录路径
		"/user/100/backup/",
	)
	example.Must(err)
	fmt.Println("copied:", ok)

	// Move a file into another directory
	// 将文件移动到其他目录
	ok, err = example.Session.Move(
		// Context for timeout/cancel control 用于控制超时和取消
		example.Ctx,
		example.Library,
		// Source file path 源文件路径
		"/user/100/big_file.tar",
		"",
		// Destination directory path 目标目录路径
		"/user/100/archive/",
	)
	example.Must(err)
	fmt.Println("moved:", ok)
}
