package main

import (
	"fmt"

	"github.com/GoFurry/seafile-sdk-go/example"
)

func main() {
	defer example.Cancel()

	// Show account usage 显示账户用量
	info, err := example.Session.AccountInfo(example.Ctx)
	example.Must(err)
	fmt.Printf("%s uses %s\n", info.Email, info.Quota())

	// List owned and shared libraries 列出自有和共享资料库
	libs, err := example.Session.ListLibraries(example.Ctx)
	example.Must(err)
	for _, l := range libs {
		fmt.Printf("%s  %s  encrypted=%v  perm=%s\n", l.ID, l.Name, l.Encrypted, l.Permission)
	}
	shared, err := example.Session.ListSharedLibraries(example.Ctx)
	example.Must(err)
	for _, l := range shared {
		fmt.Printf("%s  %s  shared by %s\n", l.ID, l.Name, l.Owner)
	}
}
