package main

import "github.com/dbsmedya/gomerge/cmd/gomerge/cmd"

func main() {
	cmd.Execute()
}
