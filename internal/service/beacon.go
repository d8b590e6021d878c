package service

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"
)

// BeaconEmitter fires lifecycle beacons at an external analytics collector.
// Emission is fire-and-forget: failures are logged and never reach the caller.
type BeaconEmitter struct {
	baseURL string
	client  *http.Client
}

// NewBeaconEmitter creates an emitter for a collector base URL. An empty URL
// disables emission.
func NewBeaconEmitter(baseURL string) *BeaconEmitter {
	return &BeaconEmitter{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// Emit posts a started/completed event for a code. Test-mode sessions emit
// nothing.
func (b *BeaconEmitter) Emit(event, code string, testMode bool) {
	if b.baseURL == "" || testMode {
		return
	}

	go func() {
		payload, err := json.Marshal(map[string]string{"testCode": code})
		if err != nil {
			return
		}
		resp, err := b.client.Post(b.baseURL+"/"+event, "application/json", bytes.NewReader(payload))
		if err != nil {
			log.Printf("Beacon %s for %s failed: %v", event, code, err)
			return
		}
		resp.Body.Close()
	}()
}
