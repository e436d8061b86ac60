package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"
)

// DocumentRendererMock is an autogenerated mock type for the DocumentRenderer type
type DocumentRendererMock struct {
	mock.Mock
}

type DocumentRendererMock_Expecter struct {
	mock *mock.Mock
}

func (_m *DocumentRendererMock) EXPECT() *DocumentRendererMock_Expecter {
	return &DocumentRendererMock_Expecter{mock: &_m.Mock}
}

// Render provides a mock function with given fields: ctx, inputPath, outDir, format
func (_m *DocumentRendererMock) Render(ctx context.Context, inputPath string, outDir string, format string) error {
	ret := _m.Called(ctx, inputPath, outDir, format)

	if len(ret) == 0 {
		panic("no return value specified for Render")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string, string, string) error); ok {
		r0 = rf(ctx, inputPath, outDir, format)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// DocumentRendererMock_Render_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Render'
type DocumentRendererMock_Render_Call struct {
	*mock.Call
}

// Render is a helper method to define mock.On call
//   - ctx context.Context
//   - inputPath string
//   - outDir string
//   - format string
func (_e *DocumentRendererMock_Expecter) Render(ctx interface{}, inputPath interface{}, outDir interface{}, format interface{}) *DocumentRendererMock_Render_Call {
	return &DocumentRendererMock_Render_Call{Call: _e.mock.On("Render", ctx, inputPath, outDir, format)}
}

func (_c *DocumentRendererMock_Render_Call) Run(run func(ctx context.Context, inputPath string, outDir string, format string)) *DocumentRendererMock_Render_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(string), args[2].(string), args[3].(string))
	})
	return _c
}

func (_c *DocumentRendererMock_Render_Call) Return(_a0 error) *DocumentRendererMock_Render_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *DocumentRendererMock_Render_Call) RunAndReturn(run func(context.Context, string, string, string) error) *DocumentRendererMock_Render_Call {
	_c.Call.Return(run)
	return _c
}

// NewDocumentRendererMock creates a new instance of DocumentRendererMock. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewDocumentRendererMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *DocumentRendererMock {
	mock := &DocumentRendererMock{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
