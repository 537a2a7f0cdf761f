package main

import (
	"fmt"

	"github.com/GoFurry/seafile-sdk-go/example"
)

func main() {
	defer example.Cancel()

	// Define upload progress callback
	// 定义上传进度回调
	uploadProgress := func(done int64, total int64) {
		percent := float64(done) / float64(total) * 100
		fmt.Printf("\r上传进度: %.2f%% (%d/%d bytes)", percent, done, total)
	}

	// Local file path to upload
	// 要上传的本地文件路径
	localFile := "E:/test/image/big_file.tar"

	// Upload local file with progress callback
	// 上传本地文件, 支持上传进度回调
	_, err := example.Session.UploadLocalFile(
		// Context for timeout/cancel control
		// 用于控制超时和取消
		example.Ctx,
		// Library id 资料库 id
		example.Library,
		// Destination directory in the library 目标目录
		"/user/100/",
		// Local file path 本地文件路径
		localFile,
		// Optional progress callback
		// 可选上传进度回调, func(done int64, total int64)
		uploadProgress,
	)
	example.Must(err)

	// Upload completed 上传完成
	fmt.Println("\nupload progress completed!")
}
