package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

var (
	baseURL     = flag.String("url", "http://localhost:3000/api", "API base URL")
	userFlag    = flag.String("user", "", "User id to act as (must have a seeded subscription)")
	uploads     = flag.Int("uploads", 10, "Number of videos to create and convert concurrently")
	concurrency = flag.Int("concurrency", 5, "Maximum requests in flight")
)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type videoData struct {
	Id string `json:"id"`
}

type usageData struct {
	Upload struct {
		Used  int `json:"used"`
		Limit int `json:"limit"`
	} `json:"upload"`
}

type client struct {
	http  *http.Client
	token string
}

func main() {
	flag.Parse()
	_ = godotenv.Load()

	userId, err := uuid.Parse(*userFlag)
	if err != nil {
		log.Fatalf("-user must be a uuid: %v", err)
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userId.String(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}

	c := &client{http: &http.Client{Timeout: 10 * time.Second}, token: token}

	color.Cyan("=== Upload Charging Simulation ===")
	before, err := c.usage()
	if err != nil {
		log.Fatalf("Failed to read usage: %v", err)
	}
	fmt.Printf("Upload usage before: %d/%d\n", before.Upload.Used, before.Upload.Limit)

	var converted, denied atomic.Int64
	g := new(errgroup.Group)
	g.SetLimit(*concurrency)

	for i := 0; i < *uploads; i++ {
		g.Go(func() error {
			res, err := c.do("POST", "/video/upload", map[string]string{
				"origionalVideoLink": fmt.Sprintf("https://example.com/simulation/%d.mp4", i),
			})
			if err != nil {
				return err
			}
			if res.Status != "true" {
				denied.Add(1)
				color.Yellow("[%02d] create: %s", i, res.Message)
				return nil
			}

			var video videoData
			if err := json.Unmarshal(res.Data, &video); err != nil {
				return err
			}
			res, err = c.do("PUT", "/video/upload", map[string]string{
				"videoId":    video.Id,
				"conVideoId": "sim-" + uuid.NewString(),
			})
			if err != nil {
				return err
			}
			if res.Status != "true" {
				denied.Add(1)
				color.Yellow("[%02d] convert: %s", i, res.Message)
				return nil
			}
			converted.Add(1)
			color.Green("[%02d] converted %s", i, video.Id)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		color.Red("Simulation aborted: %v", err)
		os.Exit(1)
	}

	after, err := c.usage()
	if err != nil {
		log.Fatalf("Failed to read usage: %v", err)
	}

	color.Cyan("\n=== Result ===")
	fmt.Printf("Converted: %d, denied: %d\n", converted.Load(), denied.Load())
	fmt.Printf("Upload usage after: %d/%d\n", after.Upload.Used, after.Upload.Limit)
	if after.Upload.Limit >= 0 && after.Upload.Used > after.Upload.Limit {
		color.Red("Usage exceeded the package limit")
		os.Exit(1)
	}
	color.Green("Usage stayed within the package limit")
}

func (c *client) usage() (*usageData, error) {
	res, err := c.do("GET", "/subscription/current", nil)
	if err != nil {
		return nil, err
	}
	if res.Status != "true" {
		return nil, fmt.Errorf("%s", res.Message)
	}
	var usage usageData
	if err := json.Unmarshal(res.Data, &usage); err != nil {
		return nil, err
	}
	return &usage, nil
}

func (c *client) do(method, path string, body interface{}) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, *baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return &envelope{Status: "false", Message: "rate limited"}, nil
	}

	var res envelope
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return &res, nil
}
