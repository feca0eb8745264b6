package main

import "github.com/fakeyudi/snipdoc/cmd"

func main() {
	cmd.Execute()
}
