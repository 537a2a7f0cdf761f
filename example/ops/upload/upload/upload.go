package main

import (
	"fmt"

	"github.com/GoFurry/seafile-sdk-go/example"
)

func main() {
	defer example.Cancel()

	ok, err := example.Session.UploadLocalFile(
		example.Ctx,
		example.Library,
		"/user/100/",
		"E:/test/image/postgres-17.6.tar",
		nil,
	)
	example.Must(err)
	fmt.Println("uploaded:", ok)

	// Upload every *.jpg below a local directory, keeping sub directories
	// 上传本地目录下所有 *.jpg, 保留子目录结构
	result, err := example.Session.UploadLocalDir(example.Ctx, example.Library, "/photos/", "E:/test/image", "**/*.jpg", true, 4)
	example.Must(err)
	for p, err := range result {
		fmt.Println(p, err)
	}
}
