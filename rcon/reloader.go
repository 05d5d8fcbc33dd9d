package rcon

// WhitelistReloader issues `whitelist reload` over RCON. It dials per call:
// the game server restarts independently of the bot, so holding a connection
// across sync intervals would go stale
type WhitelistReloader struct {
	addr     string
	password string
}

// NewWhitelistReloader creates a reloader for the given server address
func NewWhitelistReloader(addr, password string) *WhitelistReloader {
	return &WhitelistReloader{addr: addr, password: password}
}

// Reload asks the server to re-read the whitelist file
func (r *WhitelistReloader) Reload() error {
	client, err := Dial(r.addr, r.password)
	if err != nil {
		return err
	}
	defer client.Close()
	_, err = client.SendCommand("whitelist reload")
	return err
}
