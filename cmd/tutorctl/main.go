package main

import "github.com/yungbote/learning-planner/internal/cli"

func main() {
	cli.Execute()
}
