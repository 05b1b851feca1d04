package e2e

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mireadev/cso2go/internal/channel"
	"github.com/mireadev/cso2go/internal/master"
	"github.com/mireadev/cso2go/internal/protocol"
	"github.com/mireadev/cso2go/internal/protocol/packet"
	"github.com/mireadev/cso2go/internal/testutil"
	"github.com/mireadev/cso2go/internal/user"
)

const recvTimeout = 3 * time.Second

// account pairs a stored user record with its password.
type account struct {
	user     user.User
	password string
}

// newFakeUserService runs an in-memory stand-in for the upstream user
// service, complete enough for logins, session bundles and logout.
func newFakeUserService(t *testing.T) *httptest.Server {
	t.Helper()

	accounts := map[string]account{
		"gordon": {user: user.User{ID: 42, Username: "gordon", PlayerName: "Freeman", Level: 12}, password: "crowbar"},
		"barney": {user: user.User{ID: 77, Username: "barney", PlayerName: "Calhoun", Level: 3}, password: "pistol"},
	}
	byID := map[uint32]user.User{}
	for _, acc := range accounts {
		byID[acc.user.ID] = acc.user
	}

	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	pathID := func(r *http.Request) uint32 {
		var id uint32
		_, _ = fmt.Sscanf(r.PathValue("id"), "%d", &id)
		return id
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /users/auth/validate", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		id := int32(0)
		if acc, ok := accounts[req.Username]; ok {
			if acc.password == req.Password {
				id = int32(acc.user.ID)
			} else {
				id = -1
			}
		}
		writeJSON(w, http.StatusOK, struct {
			UserID int32 `json:"userId"`
		}{id})
	})
	mux.HandleFunc("POST /users/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, struct {
			Sessions int `json:"sessions"`
		}{0})
	})
	mux.HandleFunc("GET /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		u, ok := byID[pathID(r)]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, u)
	})
	mux.HandleFunc("GET /inventory/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, user.Inventory{
			UserID: pathID(r),
			Items:  []user.InventoryItem{{ItemID: 1001, Count: 1}},
		})
	})
	mux.HandleFunc("GET /inventory/{id}/cosmetics", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, user.Cosmetics{UserID: pathID(r)})
	})
	mux.HandleFunc("GET /inventory/{id}/loadout", func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r)
		outs := make([]user.Loadout, 0, user.LoadoutSlots)
		for slot := uint8(0); slot < user.LoadoutSlots; slot++ {
			outs = append(outs, user.Loadout{UserID: id, Slot: slot, Primary: 5271, Secondary: 5254})
		}
		writeJSON(w, http.StatusOK, outs)
	})
	mux.HandleFunc("GET /inventory/{id}/buymenu", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, user.BuyMenu{UserID: pathID(r), Pistols: []uint32{5254}})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// startMaster boots a full master server over a loopback listener backed by
// the fake user service and returns its dial address.
func startMaster(t *testing.T) string {
	t.Helper()

	upstream := newFakeUserService(t)
	users := user.NewClient(upstream.URL)
	directory := channel.NewDirectory([]channel.ServerSpec{
		{Name: "Test Server", Channels: []string{"Alpha", "Bravo"}},
	})
	srv := master.NewServer(master.ServerConfig{HolepunchPort: 30002}, directory, users)

	ln, addr := testutil.ListenTCP(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(3 * time.Second):
			t.Error("master server did not stop")
		}
	})

	return addr
}

// client speaks the wire protocol over one TCP connection, tracking both
// sequence counters so every received frame is checked for contiguity.
type client struct {
	t       *testing.T
	conn    net.Conn
	buf     []byte
	sendSeq uint8
	recvSeq uint8
}

func dialMaster(t *testing.T, addr string) *client {
	t.Helper()

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &client{t: t, conn: conn, buf: make([]byte, protocol.MaxBodyLen)}
}

func (c *client) send(body []byte) {
	c.t.Helper()

	frame, err := protocol.EncodeFrame(nil, c.sendSeq, body)
	require.NoError(c.t, err)
	c.sendSeq++

	_, err = c.conn.Write(frame)
	require.NoError(c.t, err)
}

func (c *client) sendBody(w *packet.Writer) {
	c.t.Helper()
	body, err := w.Bytes()
	require.NoError(c.t, err)
	c.send(body)
}

// recv reads one frame, asserting the server's outbound sequence byte is the
// next expected one.
func (c *client) recv() (uint8, []byte) {
	c.t.Helper()

	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(recvTimeout)))
	seq, body, err := protocol.ReadFrame(c.conn, c.buf)
	require.NoError(c.t, err)
	require.Equal(c.t, c.recvSeq, seq, "outbound sequence")
	c.recvSeq++

	payload := make([]byte, len(body)-1)
	copy(payload, body[1:])
	return body[0], payload
}

func (c *client) expect(id protocol.PacketID) []byte {
	c.t.Helper()
	got, payload := c.recv()
	require.Equal(c.t, uint8(id), got, "expected %s packet", id)
	return payload
}

func (c *client) version(hash string) {
	w := packet.NewWriter(2 + len(hash))
	w.WriteUint8(uint8(protocol.PacketVersion))
	w.WriteString(hash)
	c.sendBody(w)
}

func (c *client) sendLogin(username, password string) {
	w := packet.NewWriter(3 + len(username) + len(password))
	w.WriteUint8(uint8(protocol.PacketLogin))
	w.WriteString(username)
	w.WriteString(password)
	c.sendBody(w)
}

// loginBurst is the fixed packet order a successful login produces.
var loginBurst = []protocol.PacketID{
	protocol.PacketUserStart,
	protocol.PacketAchievement,
	protocol.PacketUserInfo,
	protocol.PacketInventoryAdd,
	protocol.PacketInventoryCreate,
	protocol.PacketServerList,
}

func (c *client) login(username, password string) {
	c.t.Helper()
	c.sendLogin(username, password)
	for _, id := range loginBurst {
		c.expect(id)
	}
}

func (c *client) enterChannel(server, ch uint8) {
	c.t.Helper()

	w := packet.NewWriter(3)
	w.WriteUint8(uint8(protocol.PacketRequestRoomList))
	w.WriteUint8(server)
	w.WriteUint8(ch)
	c.sendBody(w)
	c.expect(protocol.PacketRoomList)
}

// createRoom creates a room and returns its id from the snapshot reply.
func (c *client) createRoom(name, password string) uint16 {
	c.t.Helper()

	w := packet.NewWriter(8 + len(name) + len(password))
	w.WriteUint8(uint8(protocol.PacketRoom))
	w.WriteUint8(0) // new room
	w.WriteString(name)
	w.WriteString(password)
	w.WriteUint8(0) // mode
	w.WriteUint8(3) // map
	w.WriteUint8(0) // win limit, server default
	w.WriteUint8(0) // kill limit, server default
	c.sendBody(w)

	payload := c.expect(protocol.PacketRoom)
	require.Equal(c.t, uint8(0), payload[0], "room op")
	return binary.LittleEndian.Uint16(payload[1:3])
}

func (c *client) sendJoinRoom(roomID uint16, password string) {
	c.t.Helper()

	w := packet.NewWriter(5 + len(password))
	w.WriteUint8(uint8(protocol.PacketRoom))
	w.WriteUint8(1) // join
	w.WriteUint16(roomID)
	w.WriteString(password)
	c.sendBody(w)
}

func parseReply(t *testing.T, payload []byte) (uint8, string) {
	t.Helper()

	r := packet.NewReader(payload)
	typ, err := r.ReadUint8()
	require.NoError(t, err)
	msg, err := r.ReadString()
	require.NoError(t, err)
	return typ, msg
}
