package streamio_test

import (
	"fmt"

	"github.com/inovacc/streamio"
)

func ExampleStream() {
	stream, err := streamio.New(streamio.NewBuffer("w+"))
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = stream.Close()
	}()

	_, _ = stream.Write([]byte("hello stream"))

	size, _ := stream.Size()
	fmt.Println(size)
	fmt.Println(stream.String())
	// Output:
	// 12
	// hello stream
}

func ExampleStream_Detach() {
	buf := streamio.NewBufferBytes("r", []byte("payload"))
	stream, err := streamio.New(buf)
	if err != nil {
		panic(err)
	}

	raw := stream.Detach()
	fmt.Println(raw == any(buf))
	fmt.Println(stream.Detach())
	// Output:
	// true
	// <nil>
}
