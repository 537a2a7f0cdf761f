package main

import (
	"io"
	"os"

	"github.com/GoFurry/seafile-sdk-go/example"
)

func main() {
	defer example.Cancel()

	// Download a file through a one-time link
	// 通过一次性链接下载文件
	rc, _, err := example.Session.Download(
		// Context for timeout/cancel 用于控制超时和取消
		example.Ctx,
		// Library id 资料库 id
		example.Library,
		// File path to download 下载的文件路径
		"/test/test.jpg",
	)
	example.Must(err)
	defer rc.Close()

	// Create local file to save the downloaded content
	// 创建本地文件保存下载内容
	out, err := os.Create("downloaded.jpg")
	example.Must(err)
	defer out.Close()

	// Copy content from the response to local file
	// 将下载的文件内容写入本地文件
	_, err = io.Copy(out, rc)
	example.Must(err)
}
