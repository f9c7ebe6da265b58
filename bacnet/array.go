// Copyright 2025 Edgeo SCADA
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bacnet

import (
	"fmt"
)

// ArrayAll requests every element of an array property
const ArrayAll uint32 = 0xFFFFFFFF

// ArrayElementEncoder renders one element of an array property. Index 0
// is the array size. A nil buf asks for the element's length only.
// Unknown indexes return ErrInvalidArrayIndex.
type ArrayElementEncoder interface {
	EncodeElement(objectInstance uint32, index uint32, buf []byte) (int, error)
}

// ArrayElementEncoderFunc adapts a function to ArrayElementEncoder
type ArrayElementEncoderFunc func(objectInstance uint32, index uint32, buf []byte) (int, error)

// EncodeElement calls f
func (f ArrayElementEncoderFunc) EncodeElement(objectInstance uint32, index uint32, buf []byte) (int, error) {
	return f(objectInstance, index, buf)
}

// ArrayEncoder encodes an array property of an object
type ArrayEncoder struct {
	ObjectInstance uint32
	Size           uint32
	// TagNumber of the opening and closing tags wrapping the whole array.
	TagNumber uint8
	Elements  ArrayElementEncoder
}

// Encode encodes element index, or the whole array for ArrayAll. A nil
// buf returns the encoded length without writing. On error the bytes
// already written to buf are left in place.
func (a *ArrayEncoder) Encode(index uint32, buf []byte) (int, error) {
	if index != ArrayAll {
		return a.Elements.EncodeElement(a.ObjectInstance, index, buf)
	}

	if a.Size == ArrayAll {
		return 0, fmt.Errorf("%w: array size %d", ErrValueOutOfRange, a.Size)
	}

	off := EncodeOpeningTag(buf, a.TagNumber)
	if off == 0 {
		return 0, a.tagError(buf)
	}

	for i := uint32(1); i <= a.Size; i++ {
		n, err := a.Elements.EncodeElement(a.ObjectInstance, i, nil)
		if err != nil {
			return 0, err
		}
		if buf != nil {
			if off+n > len(buf) {
				return 0, fmt.Errorf("%w: array element %d needs %d octets, %d left", ErrBufferOverrun, i, n, len(buf)-off)
			}
			if n, err = a.Elements.EncodeElement(a.ObjectInstance, i, buf[off:]); err != nil {
				return 0, err
			}
		}
		off += n
	}

	var tail []byte
	if buf != nil {
		tail = buf[off:]
	}
	n := EncodeClosingTag(tail, a.TagNumber)
	if n == 0 {
		return 0, a.tagError(buf)
	}
	return off + n, nil
}

func (a *ArrayEncoder) tagError(buf []byte) error {
	if a.TagNumber == ReservedTagNumber {
		return fmt.Errorf("%w: reserved tag number %d", ErrMalformedTag, a.TagNumber)
	}
	return fmt.Errorf("%w: no room for array tag in %d octets", ErrBufferOverrun, len(buf))
}

// EncodeArraySize encodes the element count returned for index 0
func EncodeArraySize(buf []byte, size uint32) int {
	return EncodeApplicationUnsigned(buf, uint64(size))
}
