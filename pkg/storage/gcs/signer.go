package gcs

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const storageHost = "https://storage.googleapis.com"

// SignedURL produces a signed PUT URL for a direct browser upload. The
// signature covers the content type, so the client must send exactly the
// type it asked for.
func (c *Client) SignedURL(bucket, object, contentType string, expires time.Duration) (string, error) {
	if contentType == "" {
		return "", errors.New("content type is required")
	}
	sig, email, expiry, err := c.sign(http.MethodPut, bucket, object, contentType, expires)
	if err != nil {
		return "", err
	}
	if bucket == "" {
		bucket = c.defaultBucket
	}
	return fmt.Sprintf(
		"%s/%s/%s?GoogleAccessId=%s&Expires=%d&Signature=%s",
		storageHost,
		bucket,
		object,
		url.QueryEscape(url.QueryEscape(email)),
		expiry,
		url.QueryEscape(url.QueryEscape(sig)),
	), nil
}

// SignedReadURL produces a signed GET URL for a time-limited download.
func (c *Client) SignedReadURL(bucket, object string, expires time.Duration) (string, error) {
	sig, email, expiry, err := c.sign(http.MethodGet, bucket, object, "", expires)
	if err != nil {
		return "", err
	}
	if bucket == "" {
		bucket = c.defaultBucket
	}
	return fmt.Sprintf(
		"%s/%s/%s?GoogleAccessId=%s&Expires=%d&Signature=%s",
		storageHost,
		bucket,
		object,
		url.QueryEscape(email),
		expiry,
		sig,
	), nil
}

// PublicURL returns the unauthenticated object URL for buckets served with
// public read access.
func (c *Client) PublicURL(bucket, object string) string {
	if bucket == "" {
		bucket = c.defaultBucket
	}
	return fmt.Sprintf("%s/%s/%s", storageHost, bucket, object)
}

// DeleteObject removes an object. A missing object is not an error: cleanup
// jobs retry and the end state is the same.
func (c *Client) DeleteObject(ctx context.Context, bucket, object string) error {
	if c == nil || c.tokenSource == nil {
		return errors.New("gcs client not initialized")
	}
	if bucket == "" {
		bucket = c.defaultBucket
	}
	if bucket == "" {
		return errors.New("gcs bucket is required")
	}
	if object == "" {
		return errors.New("gcs object is required")
	}

	token, err := c.tokenSource.Token(ctx)
	if err != nil {
		return err
	}

	u := fmt.Sprintf(
		"%s/storage/v1/b/%s/o/%s",
		storageHost,
		url.PathEscape(bucket),
		url.PathEscape(object),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		return nil
	default:
		return fmt.Errorf("gcs delete returned %s", resp.Status)
	}
}

func (c *Client) sign(method, bucket, object, contentType string, expires time.Duration) (signature, email string, expiry int64, err error) {
	if c == nil || c.serviceAccount == nil || c.serviceAccount.privateKey == nil {
		return "", "", 0, errors.New("gcs signing requires service account credentials")
	}
	if bucket == "" {
		bucket = c.defaultBucket
	}
	if bucket == "" {
		return "", "", 0, errors.New("gcs bucket is required")
	}
	if object == "" {
		return "", "", 0, errors.New("gcs object is required")
	}
	if expires <= 0 {
		return "", "", 0, errors.New("expiry must be positive")
	}

	expiry = time.Now().Add(expires).Unix()
	payload := fmt.Sprintf("%s\n\n%s\n%d\n/%s/%s", method, contentType, expiry, bucket, object)
	hash := sha256.Sum256([]byte(payload))
	raw, err := rsa.SignPKCS1v15(rand.Reader, c.serviceAccount.privateKey, crypto.SHA256, hash[:])
	if err != nil {
		return "", "", 0, err
	}
	return base64.StdEncoding.EncodeToString(raw), c.serviceAccount.clientEmail, expiry, nil
}
