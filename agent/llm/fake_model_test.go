package llm

import (
	"context"
	"errors"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

type fakeChatModel struct {
	reply  string
	chunks []string
	err    error

	gotInput []*schema.Message
	gotStop  []string
}

func (f *fakeChatModel) record(input []*schema.Message, opts []einomodel.Option) {
	f.gotInput = input
	if stop := einomodel.GetCommonOptions(&einomodel.Options{}, opts...).Stop; stop != nil {
		f.gotStop = stop
	}
}

func (f *fakeChatModel) Generate(_ context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	f.record(input, opts)
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeChatModel) Stream(_ context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	f.record(input, opts)
	if f.err != nil {
		return nil, f.err
	}
	if f.chunks == nil {
		return nil, errors.New("no chunks configured")
	}
	msgs := make([]*schema.Message, 0, len(f.chunks))
	for _, c := range f.chunks {
		msgs = append(msgs, schema.AssistantMessage(c, nil))
	}
	return schema.StreamReaderFromArray(msgs), nil
}
