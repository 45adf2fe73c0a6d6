// Code generated by musgen-go. DO NOT EDIT.

package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

var (
	slicefWΣYICaknhO7SrXdWcUf3QΞΞ = ord.NewSliceSer[string](ord.String)
	slicesooC2D4wY2tLZQ9ryJ4RswΞΞ = ord.NewSliceSer[float32](varint.Float32)
)

var IDMUS = iDMUS{}

type iDMUS struct{}

func (s iDMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s iDMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	tmp, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	v = ID(tmp)
	return
}

func (s iDMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s iDMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

var ReconciliationKeyMUS = reconciliationKeyMUS{}

type reconciliationKeyMUS struct{}

func (s reconciliationKeyMUS) Marshal(v ReconciliationKey, bs []byte) (n int) {
	return varint.Int64.Marshal(int64(v), bs)
}

func (s reconciliationKeyMUS) Unmarshal(bs []byte) (v ReconciliationKey, n int, err error) {
	tmp, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return
	}
	v = ReconciliationKey(tmp)
	return
}

func (s reconciliationKeyMUS) Size(v ReconciliationKey) (size int) {
	return varint.Int64.Size(int64(v))
}

func (s reconciliationKeyMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int64.Skip(bs)
}

var SectionTypeMUS = sectionTypeMUS{}

type sectionTypeMUS struct{}

func (s sectionTypeMUS) Marshal(v SectionType, bs []byte) (n int) {
	return varint.Int.Marshal(int(v), bs)
}

func (s sectionTypeMUS) Unmarshal(bs []byte) (v SectionType, n int, err error) {
	tmp, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	v = SectionType(tmp)
	return
}

func (s sectionTypeMUS) Size(v SectionType) (size int) {
	return varint.Int.Size(int(v))
}

func (s sectionTypeMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int.Skip(bs)
}

var AvailabilityStatusMUS = availabilityStatusMUS{}

type availabilityStatusMUS struct{}

func (s availabilityStatusMUS) Marshal(v AvailabilityStatus, bs []byte) (n int) {
	return varint.Int.Marshal(int(v), bs)
}

func (s availabilityStatusMUS) Unmarshal(bs []byte) (v AvailabilityStatus, n int, err error) {
	tmp, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	v = AvailabilityStatus(tmp)
	return
}

func (s availabilityStatusMUS) Size(v AvailabilityStatus) (size int) {
	return varint.Int.Size(int(v))
}

func (s availabilityStatusMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int.Skip(bs)
}

var EmbeddingPointMUS = embeddingPointMUS{}

type embeddingPointMUS struct{}

func (s embeddingPointMUS) Marshal(v EmbeddingPoint, bs []byte) (n int) {
	n = ord.String.Marshal(v.ID, bs)
	n += slicesooC2D4wY2tLZQ9ryJ4RswΞΞ.Marshal(v.Vector, bs[n:])
	n += ReconciliationKeyMUS.Marshal(v.Key, bs[n:])
	n += ord.String.Marshal(v.DocumentID, bs[n:])
	n += SectionTypeMUS.Marshal(v.Section, bs[n:])
	n += slicefWΣYICaknhO7SrXdWcUf3QΞΞ.Marshal(v.Skills, bs[n:])
	n += ord.String.Marshal(v.Domain, bs[n:])
	n += ord.String.Marshal(v.SeniorityBucket, bs[n:])
	n += ord.String.Marshal(v.DictVersion, bs[n:])
	n += IDMUS.Marshal(v.Fingerprint, bs[n:])
	n += varint.Int.Marshal(v.ExperienceYears, bs[n:])
	n += ord.String.Marshal(v.Snippet, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.Timestamp, bs[n:])
}

func (s embeddingPointMUS) Unmarshal(bs []byte) (v EmbeddingPoint, n int, err error) {
	v.ID, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Vector, n1, err = slicesooC2D4wY2tLZQ9ryJ4RswΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Key, n1, err = ReconciliationKeyMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.DocumentID, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Section, n1, err = SectionTypeMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Skills, n1, err = slicefWΣYICaknhO7SrXdWcUf3QΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Domain, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.SeniorityBucket, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.DictVersion, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Fingerprint, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ExperienceYears, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Snippet, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Timestamp, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s embeddingPointMUS) Size(v EmbeddingPoint) (size int) {
	size = ord.String.Size(v.ID)
	size += slicesooC2D4wY2tLZQ9ryJ4RswΞΞ.Size(v.Vector)
	size += ReconciliationKeyMUS.Size(v.Key)
	size += ord.String.Size(v.DocumentID)
	size += SectionTypeMUS.Size(v.Section)
	size += slicefWΣYICaknhO7SrXdWcUf3QΞΞ.Size(v.Skills)
	size += ord.String.Size(v.Domain)
	size += ord.String.Size(v.SeniorityBucket)
	size += ord.String.Size(v.DictVersion)
	size += IDMUS.Size(v.Fingerprint)
	size += varint.Int.Size(v.ExperienceYears)
	size += ord.String.Size(v.Snippet)
	return size + raw.TimeUnixMicro.Size(v.Timestamp)
}

func (s embeddingPointMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = slicesooC2D4wY2tLZQ9ryJ4RswΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ReconciliationKeyMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = SectionTypeMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = slicefWΣYICaknhO7SrXdWcUf3QΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = IDMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}

var AvailabilityRecordMUS = availabilityRecordMUS{}

type availabilityRecordMUS struct{}

func (s availabilityRecordMUS) Marshal(v AvailabilityRecord, bs []byte) (n int) {
	n = ReconciliationKeyMUS.Marshal(v.Key, bs)
	n += AvailabilityStatusMUS.Marshal(v.Status, bs[n:])
	n += varint.Int.Marshal(v.AllocationPct, bs[n:])
	n += ord.String.Marshal(v.CurrentProject, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.AvailableFrom, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.AvailableTo, bs[n:])
	n += ord.String.Marshal(v.Manager, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.UpdatedAt, bs[n:])
}

func (s availabilityRecordMUS) Unmarshal(bs []byte) (v AvailabilityRecord, n int, err error) {
	v.Key, n, err = ReconciliationKeyMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Status, n1, err = AvailabilityStatusMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.AllocationPct, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CurrentProject, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.AvailableFrom, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.AvailableTo, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Manager, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s availabilityRecordMUS) Size(v AvailabilityRecord) (size int) {
	size = ReconciliationKeyMUS.Size(v.Key)
	size += AvailabilityStatusMUS.Size(v.Status)
	size += varint.Int.Size(v.AllocationPct)
	size += ord.String.Size(v.CurrentProject)
	size += raw.TimeUnixMicro.Size(v.AvailableFrom)
	size += raw.TimeUnixMicro.Size(v.AvailableTo)
	size += ord.String.Size(v.Manager)
	return size + raw.TimeUnixMicro.Size(v.UpdatedAt)
}

func (s availabilityRecordMUS) Skip(bs []byte) (n int, err error) {
	n, err = ReconciliationKeyMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = AvailabilityStatusMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}
