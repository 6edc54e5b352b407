package imagehost

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"github.com/google/uuid"
)

// Client uploads image bytes to the external host. Two auth strategies are
// tried in order: the pre-authorized upload token, then a secret-signed
// request. When both are unavailable or fail, Store degrades to the inline
// fallback; a single upload never errors out.
type Client struct {
	baseURL     string
	uploadToken string
	apiSecret   string
	http        *http.Client
}

func NewClient(baseURL, uploadToken, apiSecret string) *Client {
	return &Client{
		baseURL:     baseURL,
		uploadToken: uploadToken,
		apiSecret:   apiSecret,
		http:        &http.Client{Timeout: 30 * time.Second},
	}
}

// Store hosts one image and returns either the durable URL or the inline
// fallback record. filenameHint names the fallback and seeds the object key
// extension.
func (c *Client) Store(ctx context.Context, data []byte, mimeType, filenameHint string) StoreResult {
	if c.baseURL != "" {
		key := uuid.New().String() + extensionFor(mimeType)

		if c.uploadToken != "" {
			url, err := c.uploadWithToken(ctx, data, mimeType, key)
			if err == nil {
				return StoreResult{Hosted: &HostedResult{URL: url}}
			}
			log.Printf("image host: token upload of %s failed: %v", filenameHint, err)
		}

		if c.apiSecret != "" {
			url, err := c.uploadSigned(ctx, data, mimeType, key)
			if err == nil {
				return StoreResult{Hosted: &HostedResult{URL: url}}
			}
			log.Printf("image host: signed upload of %s failed: %v", filenameHint, err)
		}
	}

	return StoreResult{Fallback: &FallbackResult{
		Name: filenameHint,
		Data: base64.StdEncoding.EncodeToString(data),
		Size: int64(len(data)),
	}}
}

func (c *Client) uploadWithToken(ctx context.Context, data []byte, mimeType, key string) (string, error) {
	req, err := c.newUploadRequest(ctx, data, mimeType, key)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.uploadToken)

	return c.send(req)
}

func (c *Client) uploadSigned(ctx context.Context, data []byte, mimeType, key string) (string, error) {
	req, err := c.newUploadRequest(ctx, data, mimeType, key)
	if err != nil {
		return "", err
	}

	mac := hmac.New(sha256.New, []byte(c.apiSecret))
	mac.Write(data)
	req.Header.Set("X-Upload-Signature", hex.EncodeToString(mac.Sum(nil)))

	return c.send(req)
}

func (c *Client) newUploadRequest(ctx context.Context, data []byte, mimeType, key string) (*http.Request, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, key))
	header.Set("Content-Type", mimeType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := writer.WriteField("key", key); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/upload", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("User-Agent", "Leadflow/1.0")

	return req, nil
}

func (c *Client) send(req *http.Request) (string, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("image host request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("image host rejected upload (status %d): %s", resp.StatusCode, string(body))
	}

	var response uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("decode image host response: %w", err)
	}
	if response.URL == "" {
		return "", fmt.Errorf("image host returned no url")
	}

	return response.URL, nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
