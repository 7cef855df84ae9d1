package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/0xReLogic/Janus/testutil"
)

func main() {
	baseURL := flag.String("url", "http://localhost:3000", "base URL of the pool under test")
	probe := flag.Duration("hang-probe", 2*time.Second, "how long to wait for proof that timeout mode hangs")
	flag.Parse()

	if err := testutil.RunFailoverSmoke(*baseURL, *probe); err != nil {
		log.Fatal(err)
	}
	fmt.Println("Smoke test OK")
}
