package channel

// ChannelServer is one named group of channels in the directory.
// Immutable after construction.
type ChannelServer struct {
	index    uint8
	name     string
	channels []*Channel
}

// NewChannelServer creates a server with one channel per name, in order.
func NewChannelServer(index uint8, name string, channelNames []string) *ChannelServer {
	s := &ChannelServer{
		index:    index,
		name:     name,
		channels: make([]*Channel, 0, len(channelNames)),
	}
	for i, cn := range channelNames {
		s.channels = append(s.channels, NewChannel(index, uint8(i), cn))
	}
	return s
}

// Index returns the server's position in the directory.
func (s *ChannelServer) Index() uint8 {
	return s.index
}

// Name returns the configured server name.
func (s *ChannelServer) Name() string {
	return s.name
}

// Channels returns the ordered channel list.
func (s *ChannelServer) Channels() []*Channel {
	return s.channels
}

// ChannelByIndex returns the channel at the given position.
func (s *ChannelServer) ChannelByIndex(idx uint8) (*Channel, bool) {
	if int(idx) >= len(s.channels) {
		return nil, false
	}
	return s.channels[idx], true
}

// Directory is the fixed tree of channel servers configured at startup.
// Read-mostly: the tree shape never changes after construction, only the
// channels' own guarded state does.
type Directory struct {
	servers []*ChannelServer
}

// ServerSpec describes one channel server to build.
type ServerSpec struct {
	Name     string
	Channels []string
}

// NewDirectory builds the directory from ordered server specs.
func NewDirectory(specs []ServerSpec) *Directory {
	d := &Directory{servers: make([]*ChannelServer, 0, len(specs))}
	for i, spec := range specs {
		d.servers = append(d.servers, NewChannelServer(uint8(i), spec.Name, spec.Channels))
	}
	return d
}

// Servers returns the ordered channel server list.
func (d *Directory) Servers() []*ChannelServer {
	return d.servers
}

// ServerByIndex returns the channel server at the given position.
func (d *Directory) ServerByIndex(idx uint8) (*ChannelServer, bool) {
	if int(idx) >= len(d.servers) {
		return nil, false
	}
	return d.servers[idx], true
}

// ChannelAt resolves a (server, channel) coordinate pair.
func (d *Directory) ChannelAt(serverIdx, channelIdx uint8) (*Channel, bool) {
	s, ok := d.ServerByIndex(serverIdx)
	if !ok {
		return nil, false
	}
	return s.ChannelByIndex(channelIdx)
}
