package main

import (
	// Register collectors via side-effects
	_ "rayconv/internal/collectors/file"
	_ "rayconv/internal/collectors/http"
)

func main() {
	Execute()
}
