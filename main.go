package main

import "github.com/Mohsinsiddi/w3approve/cmd"

func main() {
	cmd.Execute()
}
