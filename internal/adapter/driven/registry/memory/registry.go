package memory

import (
	"fmt"
	"slices"
	"sync"

	"github.com/Wyydra/yasignal/internal/core/domain"
	"github.com/Wyydra/yasignal/internal/core/port"
)

type room struct {
	mu    sync.Mutex
	peers map[domain.PeerID]port.Client
	order []domain.PeerID // join order
}

func (r *room) snapshotLocked() []domain.PeerID {
	return slices.Clone(r.order)
}

func (r *room) membersLocked() []port.Member {
	members := make([]port.Member, 0, len(r.order))
	for _, id := range r.order {
		members = append(members, port.Member{ID: id, Client: r.peers[id]})
	}
	return members
}

// Registry is the in-memory connection registry. mu guards the room map and
// the process-wide peer index; each room's own mutex guards its membership,
// so rooms never contend with each other. Registry.mu is never acquired while
// a room lock is held.
type Registry struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]*room
	index map[domain.PeerID]domain.RoomID
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[domain.RoomID]*room),
		index: make(map[domain.PeerID]domain.RoomID),
	}
}

func (r *Registry) Register(roomID domain.RoomID, peerID domain.PeerID, client port.Client) error {
	return r.Join(roomID, peerID, client, nil)
}

// Join registers the peer and, if announce is not nil, calls it with the
// room's members in join order before the room is unlocked. No other join or
// leave in the room can interleave with announce. announce must not call back
// into the registry.
func (r *Registry) Join(roomID domain.RoomID, peerID domain.PeerID, client port.Client, announce func([]port.Member)) error {
	r.mu.Lock()
	if existing, ok := r.index[peerID]; ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s in room %q", port.ErrDuplicatePeer, peerID, existing)
	}

	rm, ok := r.rooms[roomID]
	if !ok {
		rm = &room{peers: make(map[domain.PeerID]port.Client)}
		r.rooms[roomID] = rm
	}
	r.index[peerID] = roomID
	r.mu.Unlock()

	// Rooms are never removed, so rm stays valid without Registry.mu.
	rm.mu.Lock()
	defer rm.mu.Unlock()

	rm.peers[peerID] = client
	rm.order = append(rm.order, peerID)
	if announce != nil {
		announce(rm.membersLocked())
	}
	return nil
}

func (r *Registry) Unregister(roomID domain.RoomID, peerID domain.PeerID) []domain.PeerID {
	return r.Leave(roomID, peerID, nil)
}

// Leave removes the peer and returns the ids still in the room. When the peer
// was actually removed and announce is not nil, announce is called with the
// remaining members before the room is unlocked.
func (r *Registry) Leave(roomID domain.RoomID, peerID domain.PeerID, announce func([]port.Member)) []domain.PeerID {
	r.mu.Lock()
	rm, ok := r.rooms[roomID]
	if !ok {
		r.mu.Unlock()
		return []domain.PeerID{}
	}
	if owner, ok := r.index[peerID]; ok && owner == roomID {
		delete(r.index, peerID)
	}
	r.mu.Unlock()

	rm.mu.Lock()
	defer rm.mu.Unlock()

	if _, ok := rm.peers[peerID]; ok {
		delete(rm.peers, peerID)
		rm.order = slices.DeleteFunc(rm.order, func(id domain.PeerID) bool { return id == peerID })
		if announce != nil {
			announce(rm.membersLocked())
		}
	}
	return rm.snapshotLocked()
}

func (r *Registry) Lookup(roomID domain.RoomID, peerID domain.PeerID) (port.Client, bool) {
	rm := r.room(roomID)
	if rm == nil {
		return nil, false
	}
	rm.mu.Lock()
	defer rm.mu.Unlock()
	c, ok := rm.peers[peerID]
	return c, ok
}

func (r *Registry) Roster(roomID domain.RoomID) []domain.PeerID {
	rm := r.room(roomID)
	if rm == nil {
		return []domain.PeerID{}
	}
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return rm.snapshotLocked()
}

func (r *Registry) Members(roomID domain.RoomID) []port.Member {
	rm := r.room(roomID)
	if rm == nil {
		return nil
	}
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return rm.membersLocked()
}

// Stats returns the number of known rooms (empty ones included) and the
// number of registered peers.
func (r *Registry) Stats() (rooms, peers int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms), len(r.index)
}

func (r *Registry) room(roomID domain.RoomID) *room {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rooms[roomID]
}
