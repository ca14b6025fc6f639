package main

import "github.com/FeuRenard/mygpo-go/cmd"

func main() {
	cmd.Execute()
}
