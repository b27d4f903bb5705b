package main

import (
	api "RestaurantAdviser/api"
)

func main() {
	api.Run()
}
