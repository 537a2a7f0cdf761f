package main

import (
	"fmt"

	"github.com/GoFurry/seafile-sdk-go/example"
	"github.com/GoFurry/seafile-sdk-go/pkg/seafile"
)

func main() {
	defer example.Cancel()

	// File path inside the library 资料库内文件路径
	downloadPath := "/user/100/big_file.tar"
	// Local destination path to save downloaded file 本地保存路径
	dstPath := "E:/test/big_file.tar"
	// Number of concurrent chunks 并发分块数
	chunks := 4

	// Define download progress callback
	// 定义下载进度回调函数
	downloadProgress := func(done int64, total int64) {
		// Calculate percentage completed 计算下载百分比
		percent := float64(done) / float64(total) * 100
		// Print progress in place 在同一行打印进度
		fmt.Printf("\r下载进度: %.2f%% (%d/%d bytes)", percent, done, total)
	}

	fmt.Println("开始下载...")
	// Download file concurrently with ranged chunks and progress callback
	// 并发分块下载文件, 并传入下载进度回调
	result := example.Session.DownloadConcurrent(
		example.Ctx,      // Context for timeout/cancel 用于控制超时和取消
		example.Library,  // Library id 资料库 id
		downloadPath,     // File path inside the library
		dstPath,          // Local destination path
		chunks,           // Number of concurrent chunks 并发分块数
		downloadProgress, // Progress callback function 下载进度回调函数
	)
	// Check for download errors
	// 检查下载过程中是否有错误
	failed := false
	for f, err := range result {
		if err != nil {
			failed = true
			fmt.Println("\ndownload fail:", f, err)
		}
	}
	if failed {
		return
	}

	// Small files are written straight to dstPath 小文件直接写入 dstPath
	if _, direct := result[dstPath]; direct {
		fmt.Println("\ndownload complete!")
		return
	}

	// Join the chunk files in order 按顺序合并分块文件
	parts := make([]string, 0, len(result))
	for i := range len(result) {
		parts = append(parts, seafile.PartFileName(dstPath, i))
	}
	example.Must(seafile.MergeFiles(dstPath, parts, true))
	fmt.Println("\ndownload complete!")
}
