package main

import "github.com/dbsmedya/sql2erd/cmd/sql2erd/cmd"

func main() {
	cmd.Execute()
}
