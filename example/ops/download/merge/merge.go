package main

import (
	"github.com/GoFurry/seafile-sdk-go/example"
	"github.com/GoFurry/seafile-sdk-go/pkg/seafile"
)

func main() {
	defer example.Cancel()

	// Output path for the merged file 合并后的目标文件路径
	outputPath := "E:/test/big_file.tar"

	// Part files written by DownloadConcurrent, in order
	// DownloadConcurrent 写出的分片文件, 按顺序排列
	parts := make([]string, 4)
	for i := range parts {
		parts[i] = seafile.PartFileName(outputPath, i)
	}

	// Merge multiple downloaded parts into a single file
	// 将多个下载的分片合并成一个完整文件
	err := seafile.MergeFiles(
		outputPath, // Destination file path 目标文件路径
		parts,      // List of part file paths in order 按顺序的分片文件路径列表
		// Cleanup: delete part files after merge
		// 合并后是否删除源分片文件
		true,
	)
	// Check for errors during merge
	// 检查合并过程中的错误
	if err != nil {
		panic(err)
	}
}
