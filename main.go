package main

import "github.com/mohdfareed/health-vaults-sub001/cmd"

func main() {
	cmd.Execute()
}
