package library

import "tunebridge/internal/library/plist"

const (
	// PlaylistItemsKey holds the membership array of a playlist dict.
	PlaylistItemsKey = "Playlist Items"
	// TrackIDKey identifies the track referenced by a playlist item.
	TrackIDKey = "Track ID"
)

// bucketCursor tracks how many values of each type a dict has already handed
// out while its keys are walked.
type bucketCursor struct {
	strings  int
	integers int
	dates    int
	trues    int
	falses   int
	nested   int
}

// next draws the next unconsumed value in precedence order: string, integer,
// date, true, false, nested. ok is false once every bucket is exhausted.
func (c *bucketCursor) next(n *plist.Node) (v Value, nested *plist.Node, ok bool) {
	switch {
	case c.strings < len(n.Strings):
		v = StringValue(n.Strings[c.strings])
		c.strings++
	case c.integers < len(n.Integers):
		v = IntegerValue(n.Integers[c.integers])
		c.integers++
	case c.dates < len(n.Dates):
		v = DateValue(n.Dates[c.dates])
		c.dates++
	case c.trues < n.Trues:
		v = BoolValue(true)
		c.trues++
	case c.falses < n.Falses:
		v = BoolValue(false)
		c.falses++
	case c.nested < len(n.Children):
		nested = n.Children[c.nested]
		c.nested++
		v = NodeValue(nested)
	default:
		return Value{}, nil, false
	}
	return v, nested, true
}

// DecodeDict pairs the declared keys of a dict node with its bucketed values.
// Keys left without any value are dropped. A Playlist Items array of dicts is
// reduced to a list of records holding only Track ID; every other nested node
// is stored as a KindNode value.
func DecodeDict(node *plist.Node, depth int) Record {
	if !node.IsDict() || depth > plist.MaxDepth {
		return Record{}
	}

	record := NewRecord(len(node.Keys))
	var cursor bucketCursor
	for _, key := range node.Keys {
		value, nested, ok := cursor.next(node)
		if !ok {
			continue
		}
		if nested != nil && key == PlaylistItemsKey && nested.IsArray() && nested.AllChildrenDicts() {
			value = ListValue(decodeMembership(nested, depth+1))
		}
		record.Set(key, value)
	}
	return record
}

func decodeMembership(items *plist.Node, depth int) []Record {
	members := make([]Record, 0, len(items.Children))
	for _, child := range items.Children {
		item := DecodeDict(child, depth)
		reduced := NewRecord(1)
		if v, ok := item.Get(TrackIDKey); ok {
			reduced.Set(TrackIDKey, v)
		}
		members = append(members, reduced)
	}
	return members
}
