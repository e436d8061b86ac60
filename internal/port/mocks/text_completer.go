package mocks

import (
	context "context"

	domain "github.com/bnema/docforge/internal/domain"

	mock "github.com/stretchr/testify/mock"
)

// TextCompleterMock is an autogenerated mock type for the TextCompleter type
type TextCompleterMock struct {
	mock.Mock
}

type TextCompleterMock_Expecter struct {
	mock *mock.Mock
}

func (_m *TextCompleterMock) EXPECT() *TextCompleterMock_Expecter {
	return &TextCompleterMock_Expecter{mock: &_m.Mock}
}

// Complete provides a mock function with given fields: ctx, req
func (_m *TextCompleterMock) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	ret := _m.Called(ctx, req)

	if len(ret) == 0 {
		panic("no return value specified for Complete")
	}

	var r0 string
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, domain.CompletionRequest) (string, error)); ok {
		return rf(ctx, req)
	}
	if rf, ok := ret.Get(0).(func(context.Context, domain.CompletionRequest) string); ok {
		r0 = rf(ctx, req)
	} else {
		r0 = ret.Get(0).(string)
	}

	if rf, ok := ret.Get(1).(func(context.Context, domain.CompletionRequest) error); ok {
		r1 = rf(ctx, req)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// TextCompleterMock_Complete_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Complete'
type TextCompleterMock_Complete_Call struct {
	*mock.Call
}

// Complete is a helper method to define mock.On call
//   - ctx context.Context
//   - req domain.CompletionRequest
func (_e *TextCompleterMock_Expecter) Complete(ctx interface{}, req interface{}) *TextCompleterMock_Complete_Call {
	return &TextCompleterMock_Complete_Call{Call: _e.mock.On("Complete", ctx, req)}
}

func (_c *TextCompleterMock_Complete_Call) Run(run func(ctx context.Context, req domain.CompletionRequest)) *TextCompleterMock_Complete_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(domain.CompletionRequest))
	})
	return _c
}

func (_c *TextCompleterMock_Complete_Call) Return(_a0 string, _a1 error) *TextCompleterMock_Complete_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *TextCompleterMock_Complete_Call) RunAndReturn(run func(context.Context, domain.CompletionRequest) (string, error)) *TextCompleterMock_Complete_Call {
	_c.Call.Return(run)
	return _c
}

// NewTextCompleterMock creates a new instance of TextCompleterMock. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewTextCompleterMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *TextCompleterMock {
	mock := &TextCompleterMock{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
