package grid

// Index 把从 1 开始的坐标映射成线性下标: (x-1)*height + (y-1)
//
// x 选择外层的 height 个连续单元，y 选择块内位置。越界坐标在访问切片前拒绝。
func Index(x, y, width, height uint32) (int, error) {
	if x == 0 || y == 0 || x > width || y > height {
		return 0, &OutOfBoundsError{X: x, Y: y, Width: width, Height: height}
	}
	return int(x-1)*int(height) + int(y-1), nil
}

// Coord 是 Index 的逆映射
func Coord(index int, width, height uint32) (x, y uint32, err error) {
	if height == 0 || index < 0 || index >= int(width)*int(height) {
		return 0, 0, ErrIndexOutOfRange
	}
	return uint32(index/int(height)) + 1, uint32(index%int(height)) + 1, nil
}
