package main

import (
	"github.com/ASAPmarius/Projet-WEB-sub000/internal/cli"
)

func main() {
	cli.Execute()
}
