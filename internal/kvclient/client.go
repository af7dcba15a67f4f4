// Package kvclient is a Go client for the store's TCP protocol,
// shared by the kvs-client CLI and by tests that drive a live server.
package kvclient

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/yndnr/kvs/internal/kvproto"
	"github.com/yndnr/kvs/internal/storage"
)

// Client is a single connection to a kvserver.Server. It is not safe
// for concurrent use: requests and their responses must be paired in
// order on the wire.
type Client struct {
	conn net.Conn
	r    *bufio.Reader
	w    *bufio.Writer
	dec  *kvproto.Decoder
	enc  *kvproto.Encoder
}

// Connect dials addr and returns a ready Client.
func Connect(addr string) (*Client, error) {
	return ConnectTimeout(addr, 0)
}

// ConnectTimeout dials addr with the given timeout. A zero timeout
// means no timeout.
func ConnectTimeout(addr string, timeout time.Duration) (*Client, error) {
	var conn net.Conn
	var err error
	if timeout > 0 {
		conn, err = net.DialTimeout("tcp", addr, timeout)
	} else {
		conn, err = net.Dial("tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("kvclient: dial %s: %w", addr, err)
	}

	r := bufio.NewReader(conn)
	w := bufio.NewWriter(conn)
	return &Client{
		conn: conn,
		r:    r,
		w:    w,
		dec:  kvproto.NewDecoder(r),
		enc:  kvproto.NewEncoder(w),
	}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Get returns (value, true, nil) if key is present, ("", false, nil)
// if absent, or a non-nil error if the request failed.
func (c *Client) Get(key string) (string, bool, error) {
	resp, err := c.roundTrip(kvproto.NewGetRequest(key))
	if err != nil {
		return "", false, err
	}
	if resp.Status == kvproto.StatusErr {
		return "", false, errors.New(resp.Message)
	}
	return resp.Value, resp.Found, nil
}

// Set inserts or overwrites key.
func (c *Client) Set(key, value string) error {
	resp, err := c.roundTrip(kvproto.NewSetRequest(key, value))
	if err != nil {
		return err
	}
	if resp.Status == kvproto.StatusErr {
		return errors.New(resp.Message)
	}
	return nil
}

// Remove deletes key. It returns storage.ErrKeyNotFound if the server
// reports the key was absent.
func (c *Client) Remove(key string) error {
	resp, err := c.roundTrip(kvproto.NewRemoveRequest(key))
	if err != nil {
		return err
	}
	if resp.Status == kvproto.StatusErr {
		if resp.Message == storage.ErrKeyNotFound.Error() {
			return storage.ErrKeyNotFound
		}
		return errors.New(resp.Message)
	}
	return nil
}

func (c *Client) roundTrip(req kvproto.Request) (kvproto.Response, error) {
	if err := c.enc.EncodeRequest(req); err != nil {
		return kvproto.Response{}, fmt.Errorf("kvclient: write request: %w", err)
	}
	if err := c.w.Flush(); err != nil {
		return kvproto.Response{}, fmt.Errorf("kvclient: flush request: %w", err)
	}

	resp, err := c.dec.DecodeResponse()
	if err != nil {
		return kvproto.Response{}, fmt.Errorf("kvclient: read response: %w", err)
	}
	return resp, nil
}
