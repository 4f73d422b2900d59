package change

import (
	"fmt"

	"github.com/lachlansneff/ligeia/errs"
	"github.com/lachlansneff/ligeia/format"
	"github.com/lachlansneff/ligeia/logic"
	"github.com/lachlansneff/ligeia/paged"
	"github.com/lachlansneff/ligeia/timestep"
)

// ChangeOffset is an opaque handle to one ValueChange record's byte offset
// in a ChangeStore's backing log. It is only meaningful together with the
// signal id it was produced for.
type ChangeOffset int

type signalInfo struct {
	variant     format.LogicVariant
	width       int
	recSize     int
	firstBlock  int
	lastBlock   int
	count       int
}

// ChangeStore is the append-only, block-chained log of ValueChange records
// for every declared signal, plus the TimestepTable their records index
// into. One ChangeStore backs every signal in a WaveformDB; each signal's
// blocks are interleaved in the same underlying AppendLog and linked by
// ChangeBlock.deltaNext.
type ChangeStore struct {
	log       *paged.AppendLog
	timesteps *timestep.Table
	signals   map[uint32]*signalInfo

	curTimestepIdx uint32
	haveTimestep   bool
}

// New creates an empty ChangeStore drawing its backing storage from alloc.
// A nil alloc uses the process-scoped default allocator.
func New(alloc *paged.Allocator) (*ChangeStore, error) {
	log, err := paged.NewAppendLog(alloc)
	if err != nil {
		return nil, err
	}

	return &ChangeStore{
		log:       log,
		timesteps: timestep.New(),
		signals:   make(map[uint32]*signalInfo),
	}, nil
}

// Close releases the store's backing storage.
func (s *ChangeStore) Close() { s.log.Close() }

// Declare registers signalID with the given logic variant and bit width,
// allocating its first (empty) block. Fails with errs.ErrWidthZero if
// width is 0, or errs.ErrAlreadyDeclared if signalID was already declared.
func (s *ChangeStore) Declare(signalID uint32, variant format.LogicVariant, width int) error {
	if width <= 0 {
		return fmt.Errorf("%w: signal %d", errs.ErrWidthZero, signalID)
	}

	if _, exists := s.signals[signalID]; exists {
		return fmt.Errorf("%w: signal %d", errs.ErrAlreadyDeclared, signalID)
	}

	recSize := recordSize(logic.ByteLen(variant, width))

	offset, err := s.allocBlock(recSize)
	if err != nil {
		return err
	}

	s.signals[signalID] = &signalInfo{
		variant:    variant,
		width:      width,
		recSize:    recSize,
		firstBlock: offset,
		lastBlock:  offset,
	}

	return nil
}

func (s *ChangeStore) allocBlock(recSize int) (int, error) {
	// Freshly reserved bytes come zeroed from the backing Region, so the
	// new block's header already reads as {deltaNext: 0, len: 0}.
	offset, _, err := s.log.Reserve(blockSize(recSize))
	if err != nil {
		return 0, err
	}

	return offset, nil
}

// PushTimestep records ts as the current timestep for subsequent Append
// calls. It delegates directly to the underlying TimestepTable, so the
// same deduplication and monotonicity rules (§4.3) apply.
func (s *ChangeStore) PushTimestep(ts uint64) error {
	idx, err := s.timesteps.Push(ts)
	if err != nil {
		return err
	}

	s.curTimestepIdx = idx
	s.haveTimestep = true

	return nil
}

func (s *ChangeStore) signal(signalID uint32) (*signalInfo, error) {
	info, ok := s.signals[signalID]
	if !ok {
		return nil, fmt.Errorf("%w: signal %d", errs.ErrUnknownSignal, signalID)
	}

	return info, nil
}

// Append reserves the next ValueChange record for signalID at the current
// timestep (set by the most recent PushTimestep call; 0 if none has been
// made yet), rolling over to a freshly linked block if the signal's tail
// block is already full. It returns a mutable logic.SliceMut directly over
// the record's packed bytes for the caller to fill in.
func (s *ChangeStore) Append(signalID uint32) (logic.SliceMut, error) {
	info, err := s.signal(signalID)
	if err != nil {
		return logic.SliceMut{}, err
	}

	header := readBlockHeader(s.log.At(info.lastBlock, blockHeaderSize))
	if int(header.len) >= K {
		newOffset, err := s.allocBlock(info.recSize)
		if err != nil {
			return logic.SliceMut{}, err
		}

		writeBlockDeltaNext(s.log.At(info.lastBlock, blockHeaderSize), uint64(newOffset-info.lastBlock))
		info.lastBlock = newOffset
		header = blockHeader{}
	}

	recordOffset := info.lastBlock + blockHeaderSize + int(header.len)*info.recSize
	record := s.log.At(recordOffset, info.recSize)

	var tsIdx uint32
	if s.haveTimestep {
		tsIdx = s.curTimestepIdx
	}
	le.PutUint32(record[0:4], tsIdx)

	writeBlockLen(s.log.At(info.lastBlock, blockHeaderSize), header.len+1)
	info.count++

	return logic.NewSliceMut(info.variant, info.width, record[4:]), nil
}

// Count returns the number of ValueChange records recorded for signalID.
func (s *ChangeStore) Count(signalID uint32) (int, error) {
	info, err := s.signal(signalID)
	if err != nil {
		return 0, err
	}

	return info.count, nil
}

// Fetch decodes the timestep index and logic payload of the record at
// offset. The caller is trusted to supply an offset previously returned by
// Append or an Iter over the same signalID; this never re-validates the
// signal's declared variant/width against the offset.
func (s *ChangeStore) Fetch(signalID uint32, offset ChangeOffset) (timestepIndex uint32, value logic.Slice, err error) {
	info, err := s.signal(signalID)
	if err != nil {
		return 0, logic.Slice{}, err
	}

	record := s.log.At(int(offset), info.recSize)
	timestepIndex = le.Uint32(record[0:4])

	return timestepIndex, logic.NewSlice(info.variant, info.width, record[4:]), nil
}

// FetchMut is Fetch with a mutable view over the logic payload, so a
// caller can revise a previously recorded change in place.
func (s *ChangeStore) FetchMut(signalID uint32, offset ChangeOffset) (timestepIndex uint32, value logic.SliceMut, err error) {
	info, err := s.signal(signalID)
	if err != nil {
		return 0, logic.SliceMut{}, err
	}

	record := s.log.At(int(offset), info.recSize)
	timestepIndex = le.Uint32(record[0:4])

	return timestepIndex, logic.NewSliceMut(info.variant, info.width, record[4:]), nil
}

// Timestep resolves a timestep index (as returned by Fetch/FetchMut) back
// to its absolute timestep value.
func (s *ChangeStore) Timestep(index uint32) (uint64, error) {
	return s.timesteps.Get(index)
}

// CurrentTimestep returns the absolute value of the timestep most
// recently set by PushTimestep, or 0 if none has been pushed yet. This is
// the timestep Append stamps onto the next record it writes.
func (s *ChangeStore) CurrentTimestep() (uint64, error) {
	if !s.haveTimestep {
		return 0, nil
	}

	return s.timesteps.Get(s.curTimestepIdx)
}

// BlockOffsets returns the header offsets of every block in signalID's
// chain, in chain order. It exists for diagnostics and tests; normal
// traversal should use Iter.
func (s *ChangeStore) BlockOffsets(signalID uint32) ([]int, error) {
	info, err := s.signal(signalID)
	if err != nil {
		return nil, err
	}

	var offsets []int
	offset := info.firstBlock
	for {
		offsets = append(offsets, offset)

		header := readBlockHeader(s.log.At(offset, blockHeaderSize))
		if header.deltaNext == 0 {
			return offsets, nil
		}

		offset += int(header.deltaNext)
	}
}
