package main

import "oneacademy/internal/app"

// @title           OneAcademy API
// @version         1.0
// @description     Backend for the OneAcademy online course platform.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
