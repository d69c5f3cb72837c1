package main

import "student-crm/cmd"

func main() {
	cmd.Execute()
}
