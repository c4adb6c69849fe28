package images

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Uploader pushes a local artifact to an external image host and returns
// the hosted URL.
type Uploader interface {
	Upload(ctx context.Context, path, filename string) (string, error)
}

var uploadClient = &http.Client{Timeout: 30 * time.Second}

const imgbbEndpoint = "https://api.imgbb.com/1/upload"

// ImgBB uploads base64-encoded images to the ImgBB hosting API.
type ImgBB struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

func NewImgBB(apiKey string) *ImgBB {
	return &ImgBB{apiKey: apiKey, endpoint: imgbbEndpoint, client: uploadClient}
}

type imgbbResponse struct {
	Data struct {
		URL string `json:"url"`
	} `json:"data"`
}

func (u *ImgBB) Upload(ctx context.Context, path, filename string) (string, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read artifact %s: %w", path, err)
	}

	form := url.Values{}
	form.Set("image", base64.StdEncoding.EncodeToString(buf))
	form.Set("name", filename)

	reqURL := fmt.Sprintf("%s?key=%s", u.endpoint, url.QueryEscape(u.apiKey))
	req, err := http.NewRequestWithContext(ctx, "POST", reqURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image host status %d", resp.StatusCode)
	}

	var result imgbbResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	if result.Data.URL == "" {
		return "", fmt.Errorf("image host returned no URL")
	}
	return result.Data.URL, nil
}
