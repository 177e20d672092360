// Package tileset holds the tile library: single and large (multi-cell) tile
// configurations, their per-edge sockets, and the pairing table that the WFC
// solver uses to decide which neighbors are legal.
package tileset

import "github.com/klemola/liikennematto-sub004/internal/geom"

// Socket is a named color on one edge of a tile. Two tiles may sit next to
// each other only if their facing sockets pair according to PairingTable.
type Socket uint8

const (
	SocketRed Socket = iota
	SocketGreen
	SocketBlue
	SocketPink
	SocketYellow
	SocketOrange
	SocketLightBrown
	SocketDarkBrown
	SocketGray
	SocketWhite
	socketCount // sentinel
)

// pairingTable[a] is the set of sockets that may dock against a. Built once
// in init(); symmetric pairs are added both ways so lookups are a single map
// read regardless of which side initiated the match.
var pairingTable = map[Socket]map[Socket]bool{}

func pair(a, b Socket) {
	if pairingTable[a] == nil {
		pairingTable[a] = map[Socket]bool{}
	}
	if pairingTable[b] == nil {
		pairingTable[b] = map[Socket]bool{}
	}
	pairingTable[a][b] = true
	pairingTable[b][a] = true
}

func init() {
	// Every socket pairs with itself; gray (the open road edge in
	// DefaultTileset) also pairs with white. Buffer cells carry no sockets:
	// the solver and SocketsConsistent skip them explicitly.
	pair(SocketRed, SocketRed)
	pair(SocketGreen, SocketGreen)
	pair(SocketBlue, SocketBlue)
	pair(SocketPink, SocketPink)
	pair(SocketYellow, SocketYellow)
	pair(SocketOrange, SocketOrange)
	pair(SocketLightBrown, SocketLightBrown)
	pair(SocketDarkBrown, SocketDarkBrown)
	pair(SocketGray, SocketGray)
	pair(SocketGray, SocketWhite)
	pair(SocketWhite, SocketWhite)
}

// Pairs reports whether sockets a and b may face each other.
func Pairs(a, b Socket) bool {
	return pairingTable[a] != nil && pairingTable[a][b]
}

// Sockets is the four-edge socket set of a single tile, indexed by
// geom.Direction.
type Sockets [4]Socket

// Edge returns the socket facing direction d.
func (s Sockets) Edge(d geom.Direction) Socket { return s[d] }
