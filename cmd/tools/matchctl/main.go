// cmd/tools/matchctl/main.go
package main

func main() {
	Execute()
}
