// Load driver for the proxy. Starts a mock catalog upstream, builds and runs
// the real server against it, then measures with vegeta.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"time"

	vegeta "github.com/tsenart/vegeta/v12/lib"
)

const (
	mockPort = 9091
	appPort  = 8081
)

var listBody = []byte(`[
  {"id":"meta-llama/Llama-3.1-8B-Instruct","private":false,"gated":"manual","tags":["text-generation"],"lastModified":"2024-07-23T16:45:12.000Z"},
  {"id":"mistralai/Mistral-7B-v0.1","private":false,"gated":false,"tags":["text-generation"],"lastModified":"2023-12-11T09:03:44.000Z"},
  {"id":"bigscience/bloom","private":false,"gated":false,"tags":[],"lastModified":"2023-02-01T00:00:00.000Z"}
]`)

var detailBody = []byte(`{"id":"meta-llama/Llama-3.1-8B-Instruct","private":false,"gated":"manual","tags":["text-generation","conversational"],"lastModified":"2024-07-23T16:45:12.000Z"}`)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "Duration of the test")
	rate := flag.Int("rate", 50, "Requests per second")
	endpoint := flag.String("endpoint", "list", "Endpoint to hit: list, detail or health")
	flag.Parse()

	go startMockUpstream()

	fmt.Println("Building application...")
	buildCmd := exec.Command("go", "build", "-o", "bin/server", "./cmd/server")
	buildCmd.Stdout = os.Stdout
	buildCmd.Stderr = os.Stderr
	if err := buildCmd.Run(); err != nil {
		log.Fatalf("Failed to build app: %v", err)
	}

	fmt.Println("Starting application...")
	cmd := exec.Command("./bin/server")
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("SERVER_PORT=%d", appPort),
		fmt.Sprintf("HUB_BASE_URL=http://localhost:%d/api", mockPort),
		"RATE_LIMIT_REQUESTS_PER_SECOND=0",
		"LOG_LEVEL=error",
	)

	logFile, _ := os.Create("bench_server.log")
	defer logFile.Close()
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		log.Fatalf("Failed to start app: %v", err)
	}
	defer func() {
		if cmd.Process != nil {
			cmd.Process.Kill()
		}
	}()

	waitForApp(fmt.Sprintf("http://localhost:%d/healthz", appPort))

	var url string
	switch *endpoint {
	case "detail":
		url = fmt.Sprintf("http://localhost:%d/outputs/meta-llama/Llama-3.1-8B-Instruct", appPort)
	case "health":
		url = fmt.Sprintf("http://localhost:%d/healthz", appPort)
	default:
		url = fmt.Sprintf("http://localhost:%d/outputs", appPort)
	}

	fmt.Printf("Running %s benchmark: %s duration, %d req/s\n", *endpoint, *duration, *rate)

	targeter := vegeta.NewStaticTargeter(vegeta.Target{
		Method: http.MethodGet,
		URL:    url,
	})

	attacker := vegeta.NewAttacker(vegeta.KeepAlive(true))
	var metrics vegeta.Metrics

	for res := range attacker.Attack(targeter, vegeta.Rate{Freq: *rate, Per: time.Second}, *duration, "Benchmark") {
		metrics.Add(res)
	}
	metrics.Close()

	fmt.Println("--------------------------------------------------")
	fmt.Println("99th percentile: ", metrics.Latencies.P99)
	fmt.Println("Mean:            ", metrics.Latencies.Mean)
	fmt.Println("Max:             ", metrics.Latencies.Max)
	fmt.Printf("Success:         %.2f%%\n", metrics.Success*100)
	fmt.Printf("Throughput:      %.2f req/s\n", metrics.Throughput)
	fmt.Println("--------------------------------------------------")

	if len(metrics.Errors) > 0 {
		fmt.Println("Error Set (first 5 unique):")
		uniqueErrors := make(map[string]bool)
		count := 0
		for _, msg := range metrics.Errors {
			if !uniqueErrors[msg] && count < 5 {
				fmt.Println(msg)
				uniqueErrors[msg] = true
				count++
			}
		}
	}
}

func startMockUpstream() {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(listBody)
	})
	mux.HandleFunc("/api/models/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(detailBody)
	})

	if err := http.ListenAndServe(fmt.Sprintf(":%d", mockPort), mux); err != nil {
		log.Fatalf("Mock upstream failed: %v", err)
	}
}

func waitForApp(url string) {
	for i := 0; i < 50; i++ {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	log.Fatal("App did not become ready in time")
}
