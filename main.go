package main

import "github.com/alshifa/hospital-management/cmd"

func main() {
	cmd.Execute()
}
