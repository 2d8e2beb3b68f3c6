package directupload

import (
	"context"
	"time"
)

// Observer receives one call per adapter operation. *metrics.PrometheusObserver implements it.
type Observer interface {
	ObserveOperation(filesystem, operation string, duration time.Duration, err error)
}

type instrumented struct {
	filesystem string
	next       Adapter
	observer   Observer
}

// Instrument reports the duration and outcome of every call on a to observer.
func Instrument(filesystem string, a Adapter, observer Observer) Adapter {
	if observer == nil {
		return a
	}
	return &instrumented{filesystem: filesystem, next: a, observer: observer}
}

func (i *instrumented) observe(op string, start time.Time, err error) {
	i.observer.ObserveOperation(i.filesystem, op, time.Since(start), err)
}

func (i *instrumented) PrepareSingle(ctx context.Context, ev *UploadEvent) (out SingleUpload, err error) {
	start := time.Now()
	defer func() { i.observe("prepare_single", start, err) }()
	return i.next.PrepareSingle(ctx, ev)
}

func (i *instrumented) CreateMultipart(ctx context.Context, ev *UploadEvent) (out MultipartUpload, err error) {
	start := time.Now()
	defer func() { i.observe("create_multipart", start, err) }()
	return i.next.CreateMultipart(ctx, ev)
}

func (i *instrumented) ListParts(ctx context.Context, uploadID, key string) (out []Part, err error) {
	start := time.Now()
	defer func() { i.observe("list_parts", start, err) }()
	return i.next.ListParts(ctx, uploadID, key)
}

func (i *instrumented) SignPart(ctx context.Context, uploadID, key string, partNumber int32) (out string, err error) {
	start := time.Now()
	defer func() { i.observe("sign_part", start, err) }()
	return i.next.SignPart(ctx, uploadID, key, partNumber)
}

func (i *instrumented) CompleteMultipart(ctx context.Context, uploadID, key string, parts []Part) (err error) {
	start := time.Now()
	defer func() { i.observe("complete_multipart", start, err) }()
	return i.next.CompleteMultipart(ctx, uploadID, key, parts)
}

func (i *instrumented) AbortMultipart(ctx context.Context, uploadID, key string) (err error) {
	start := time.Now()
	defer func() { i.observe("abort_multipart", start, err) }()
	return i.next.AbortMultipart(ctx, uploadID, key)
}
