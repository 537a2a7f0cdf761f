package main

import (
	"fmt"
	"io"
	"os"

	"github.com/GoFurry/seafile-sdk-go/example"
)

func main() {
	defer example.Cancel()

	rc, _, status, err := example.Session.DownloadRange(example.Ctx, example.Library, "/test/test.jpg", 0, 1024*1024-1)
	example.Must(err)
	defer rc.Close()

	// 206 when the server honoured the range, 200 for the whole file
	// 服务器支持范围请求时返回 206, 否则返回 200 和完整文件
	fmt.Println("status:", status)

	out, err := os.Create("part.bin")
	example.Must(err)
	defer out.Close()

	_, err = io.Copy(out, rc)
	example.Must(err)
}
