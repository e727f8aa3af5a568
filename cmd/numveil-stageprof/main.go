package main

import "github.com/example/go-numveil/internal/bench/stageprof"

func main() { stageprof.Main() }
