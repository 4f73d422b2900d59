package change

import "iter"

// Iter returns a forward iterator over every ChangeOffset recorded for
// signalID, walking the signal's block chain from its first block via
// each block's deltaNext link. Offsets are yielded in timestep order,
// since records are only ever appended at the chain's tail.
func (s *ChangeStore) Iter(signalID uint32) (iter.Seq[ChangeOffset], error) {
	info, err := s.signal(signalID)
	if err != nil {
		return nil, err
	}

	return func(yield func(ChangeOffset) bool) {
		offset := info.firstBlock

		for {
			header := readBlockHeader(s.log.At(offset, blockHeaderSize))

			for i := 0; i < int(header.len); i++ {
				recordOffset := offset + blockHeaderSize + i*info.recSize
				if !yield(ChangeOffset(recordOffset)) {
					return
				}
			}

			if header.deltaNext == 0 {
				return
			}

			offset += int(header.deltaNext)
		}
	}, nil
}
