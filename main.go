package main

import "github.com/EO-DataHub/eodhp-record-services/cmd"

func main() {
	cmd.Execute()
}
