package main

import (
	"fmt"

	"github.com/GoFurry/seafile-sdk-go/example"
)

func main() {
	defer example.Cancel()

	_, err := example.Session.Delete(example.Ctx, example.Library, "/test/test.jpg")
	example.Must(err)

	paths := []string{
		"/test/a.jpg",
		"/test/mmexport1757515637886.jpeg",
		"/test/c.jpg",
	}

	result := example.Session.DeleteBatch(example.Ctx, example.Library, paths, false, 2)
	for p, err := range result {
		fmt.Println(p, err)
	}
}
