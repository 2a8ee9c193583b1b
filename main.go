package main

import "github.com/VitalijsFilipovs/booking-bot/cmd"

func main() {
	cmd.Execute()
}
