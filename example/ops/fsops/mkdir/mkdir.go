package main

import (
	"fmt"

	"github.com/GoFurry/seafile-sdk-go/example"
)

func main() {
	defer example.Cancel()

	// Create a new directory in the library
	// 在资料库中创建一个新目录
	ok, err := example.Session.Mkdir(
		// Context for timeout/cancel control
		// 用于控制超时和取消
		example.Ctx,
		// Library id 资料库 id
		example.Library,
		// Directory path to create
		// 要创建的目录路径
		"/user/100",
	)
	example.Must(err)
	fmt.Println("created:", ok)
}
