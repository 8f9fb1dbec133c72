package main

import "github.com/viktsys/tefassync/cmd"

func main() {
	cmd.Execute()
}
