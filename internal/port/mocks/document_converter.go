// Package mocks holds testify mocks of the port interfaces, in expecter style.
package mocks

import (
	context "context"

	domain "github.com/bnema/docforge/internal/domain"

	mock "github.com/stretchr/testify/mock"
)

// DocumentConverterMock is an autogenerated mock type for the DocumentConverter type
type DocumentConverterMock struct {
	mock.Mock
}

type DocumentConverterMock_Expecter struct {
	mock *mock.Mock
}

func (_m *DocumentConverterMock) EXPECT() *DocumentConverterMock_Expecter {
	return &DocumentConverterMock_Expecter{mock: &_m.Mock}
}

// Convert provides a mock function with given fields: ctx, req
func (_m *DocumentConverterMock) Convert(ctx context.Context, req domain.ConversionRequest) ([]string, error) {
	ret := _m.Called(ctx, req)

	if len(ret) == 0 {
		panic("no return value specified for Convert")
	}

	var r0 []string
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, domain.ConversionRequest) ([]string, error)); ok {
		return rf(ctx, req)
	}
	if rf, ok := ret.Get(0).(func(context.Context, domain.ConversionRequest) []string); ok {
		r0 = rf(ctx, req)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]string)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, domain.ConversionRequest) error); ok {
		r1 = rf(ctx, req)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// DocumentConverterMock_Convert_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Convert'
type DocumentConverterMock_Convert_Call struct {
	*mock.Call
}

// Convert is a helper method to define mock.On call
//   - ctx context.Context
//   - req domain.ConversionRequest
func (_e *DocumentConverterMock_Expecter) Convert(ctx interface{}, req interface{}) *DocumentConverterMock_Convert_Call {
	return &DocumentConverterMock_Convert_Call{Call: _e.mock.On("Convert", ctx, req)}
}

func (_c *DocumentConverterMock_Convert_Call) Run(run func(ctx context.Context, req domain.ConversionRequest)) *DocumentConverterMock_Convert_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(domain.ConversionRequest))
	})
	return _c
}

func (_c *DocumentConverterMock_Convert_Call) Return(_a0 []string, _a1 error) *DocumentConverterMock_Convert_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *DocumentConverterMock_Convert_Call) RunAndReturn(run func(context.Context, domain.ConversionRequest) ([]string, error)) *DocumentConverterMock_Convert_Call {
	_c.Call.Return(run)
	return _c
}

// NewDocumentConverterMock creates a new instance of DocumentConverterMock. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewDocumentConverterMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *DocumentConverterMock {
	mock := &DocumentConverterMock{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
