package main

import "hotel-reservation/cmd"

func main() {
	cmd.Execute()
}
