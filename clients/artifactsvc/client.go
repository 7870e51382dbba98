// Copyright (c) 2026, WSO2 LLC. (https://www.wso2.com).
//
// WSO2 LLC. licenses this file to you under the Apache License,
// Version 2.0 (the "License"); you may not use this file except
// in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Package artifactsvc talks to the external artifact store. The store owns the
// binaries; this service only needs identity, size and content hash.
package artifactsvc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/wso2/device-update-management-platform/rollout-manager-service/utils"
)

// ArtifactInfo is the store's metadata for one stored binary
type ArtifactInfo struct {
	Filename  string `json:"filename"`
	SHA256    string `json:"sha256"`
	SizeBytes int64  `json:"sizeBytes"`
}

// ArtifactStoreClient resolves artifact references against the artifact store
type ArtifactStoreClient interface {
	// GetArtifactInfo fetches the metadata of a stored artifact by its store
	// reference. Returns ErrArtifactNotFound if the store does not know it.
	GetArtifactInfo(ctx context.Context, storeRef string) (*ArtifactInfo, error)
}

type artifactStoreClient struct {
	baseURL    string
	httpClient *retryablehttp.Client
}

// NewArtifactStoreClient creates an artifact store client with retrying
// transport
func NewArtifactStoreClient(baseURL string, timeout time.Duration, logger *slog.Logger) ArtifactStoreClient {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	rc.HTTPClient.Timeout = timeout
	rc.Logger = leveledLogger{logger: logger}
	return &artifactStoreClient{
		baseURL:    baseURL,
		httpClient: rc,
	}
}

// GetArtifactInfo fetches artifact metadata from the store
func (c *artifactStoreClient) GetArtifactInfo(ctx context.Context, storeRef string) (*ArtifactInfo, error) {
	endpoint := fmt.Sprintf("%s/artifacts/%s", c.baseURL, url.PathEscape(storeRef))
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create artifact store request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("artifact store request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var info ArtifactInfo
		if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
			return nil, fmt.Errorf("failed to decode artifact store response: %w", err)
		}
		return &info, nil
	case http.StatusNotFound:
		return nil, utils.ErrArtifactNotFound
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("artifact store returned status %d: %s", resp.StatusCode, string(body))
	}
}

// leveledLogger adapts slog to retryablehttp's LeveledLogger interface
type leveledLogger struct {
	logger *slog.Logger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, keysAndValues...)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, keysAndValues...)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, keysAndValues...)
}
