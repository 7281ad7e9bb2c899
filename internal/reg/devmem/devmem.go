// Copyright © 2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package devmem is a register bus over physical memory windows mapped from
// /dev/mem.
package devmem

import (
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	mmap "github.com/edsrzf/mmap-go"

	"github.com/platinasystems/prcm/internal/reg"
)

const (
	File     = "/dev/mem"
	PageSize = 4096
)

type window struct {
	base, end reg.Addr
	mm        mmap.MMap
	// offset of base within mm, mappings start on a page boundary
	offset uintptr
}

type Bus struct {
	f       *os.File
	windows []*window
}

func Open() (*Bus, error) {
	f, err := os.OpenFile(File, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, fmt.Errorf("couldn't open %s: %v", File, err)
	}
	return &Bus{f: f}, nil
}

// Map adds the physical range [base, base+size) to the bus.
func (b *Bus) Map(base reg.Addr, size int) error {
	pagemask := ^reg.Addr(PageSize - 1)
	mapAddr := base & pagemask
	n := size + int(base-mapAddr)
	mm, err := mmap.MapRegion(b.f, n, mmap.RDWR, 0, int64(mapAddr))
	if err != nil {
		return fmt.Errorf("couldn't map region (%v, %v): %v", base, size,
			err)
	}
	b.windows = append(b.windows, &window{
		base:   base,
		end:    base + reg.Addr(size),
		mm:     mm,
		offset: uintptr(base - mapAddr),
	})
	return nil
}

func (b *Bus) Close() (err error) {
	for _, w := range b.windows {
		if e := w.mm.Unmap(); e != nil && err == nil {
			err = e
		}
	}
	b.windows = nil
	if e := b.f.Close(); e != nil && err == nil {
		err = e
	}
	return
}

func (b *Bus) ptr(a reg.Addr) unsafe.Pointer {
	for _, w := range b.windows {
		if a >= w.base && a < w.end {
			i := w.offset + uintptr(a-w.base)
			return unsafe.Pointer(&w.mm[i])
		}
	}
	panic(fmt.Errorf("%v: not mapped", a))
}

func (b *Bus) Read32(a reg.Addr) uint32 {
	return atomic.LoadUint32((*uint32)(b.ptr(a)))
}

func (b *Bus) Write32(a reg.Addr, v uint32) {
	atomic.StoreUint32((*uint32)(b.ptr(a)), v)
}

func (b *Bus) Read16(a reg.Addr) uint16 {
	v := b.Read32(a &^ 3)
	if a&2 != 0 {
		v >>= 16
	}
	return uint16(v)
}
