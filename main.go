package main

import "github.com/ValentinKolb/rsock/cmd"

func main() {
	cmd.Execute()
}
