// Package rcon implements the small slice of the Valve RCON protocol needed
// to ask the game server to re-read its whitelist file after a sync flush.
// Protocol reference: https://developer.valvesoftware.com/wiki/Source_RCON_Protocol
package rcon

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"strings"
	"time"
)

const (
	typeAuth    = 3
	typeCommand = 2

	// Response id the server uses to signal a failed authentication
	idBadAuth = -1

	// Maximum request payload the server accepts
	maxPayloadSize = 1460

	dialTimeout = 10 * time.Second
)

// Client holds an authenticated RCON connection to a running game server
type Client struct {
	conn net.Conn
}

// Dial connects to the game server and authenticates with the password
func Dial(addr, password string) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return nil, err
	}
	client := &Client{conn: conn}
	if _, err := client.roundTrip(typeAuth, password); err != nil {
		conn.Close()
		return nil, err
	}
	return client, nil
}

// SendCommand issues a console command against the running game server and
// returns its response text
func (c *Client) SendCommand(command string) (string, error) {
	body, err := c.roundTrip(typeCommand, command)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(bytes.Trim(body, "\x00"))), nil
}

// Close terminates the underlying connection
func (c *Client) Close() error {
	return c.conn.Close()
}

// Packets are length-prefixed: Size | ID | Type as little-endian int32,
// then the null-terminated ASCII body plus one more null pad byte
func (c *Client) roundTrip(packetType int32, body string) ([]byte, error) {
	id := rand.Int31()
	packet, err := encodePacket(id, packetType, body)
	if err != nil {
		return nil, err
	}
	if _, err := c.conn.Write(packet); err != nil {
		return nil, err
	}

	var size int32
	if err := binary.Read(c.conn, binary.LittleEndian, &size); err != nil {
		return nil, fmt.Errorf("read packet length: %w", err)
	}
	if size < 4+4+2 {
		return nil, errors.New("rcon: response packet too short")
	}
	buf := make([]byte, size)
	if err := binary.Read(c.conn, binary.LittleEndian, &buf); err != nil {
		return nil, fmt.Errorf("read packet body: %w", err)
	}
	if int32(binary.LittleEndian.Uint32(buf[:4])) == idBadAuth {
		return nil, errors.New("rcon: authentication unsuccessful")
	}
	return buf[8 : size-2], nil
}

func encodePacket(id, packetType int32, body string) ([]byte, error) {
	size := int32(len(body) + 4 + 4 + 2)
	buf := new(bytes.Buffer)
	for _, field := range []interface{}{size, id, packetType, []byte(body), []byte{0, 0}} {
		if err := binary.Write(buf, binary.LittleEndian, field); err != nil {
			return nil, err
		}
	}
	if buf.Len() >= maxPayloadSize {
		return nil, fmt.Errorf("rcon: payload exceeds maximum allowed size of %d", maxPayloadSize)
	}
	return buf.Bytes(), nil
}
