package main

import "github.com/Magalhaexz/ChatBot-Viale/internal/cli"

func main() {
	cli.Execute()
}
