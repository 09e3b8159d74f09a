package main

import "github.com/dbsmedya/sfnav/cmd/sfnav/cmd"

func main() {
	cmd.Execute()
}
