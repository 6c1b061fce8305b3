package main

import "github.com/pythlabs/godscore/pkg/cli"

func main() {
	cli.Execute()
}
