package protocol

// Frame encodes a complete server->client packet: varint(total_length) then
// varint(id) then payload, per spec §6. total_length covers everything
// after the length varint itself (id + payload).
func Frame(id int32, payload []byte) []byte {
	idSize := SizeVarInt(id)
	total := idSize + len(payload)
	out := make([]byte, 0, SizeVarInt(int32(total))+total)
	var lbuf [5]byte
	n := PutVarInt(lbuf[:], int32(total))
	out = append(out, lbuf[:n]...)
	var ibuf [5]byte
	n = PutVarInt(ibuf[:], id)
	out = append(out, ibuf[:n]...)
	out = append(out, payload...)
	return out
}

// BuildPacket is a convenience that frames the bytes a Writer accumulated
// under the given packet id.
func BuildPacket(id int32, w *Writer) []byte {
	return Frame(id, w.Bytes())
}
