package main

import "github.com/usman-wf/warzish-sub000/cmd/warzish"

func main() {
	warzish.Execute()
}
