package ai

import (
	"encoding/base64"
	"time"
)

// 语音通道的协作方边界：连接/回调契约与音频分块的编解码约定
// 输入音频重采样为 16kHz 单声道 16-bit PCM，逐块 base64 编码
// 输出音频为 24kHz 单声道 16-bit PCM，需按累计的"下一次开始时间"做无缝排播

const (
	// LiveInputSampleRate 上行音频采样率
	LiveInputSampleRate = 16000
	// LiveOutputSampleRate 下行音频采样率
	LiveOutputSampleRate = 24000

	// LiveInputMIMEType 上行音频块的 MIME 类型
	LiveInputMIMEType = "audio/pcm;rate=16000"
)

// LiveCallbacks 语音会话回调契约
// text 和 audio 可能只有其一：优先音频，文本可用作字幕
type LiveCallbacks struct {
	OnConnect func()
	OnMessage func(text string, audio []byte)
	OnClose   func()
}

// EncodePCMChunk 把 float32 采样编码为 base64 的 16-bit LE PCM 块
func EncodePCMChunk(samples []float32) string {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		// clamp 到 [-1, 1] 再放大到 int16
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		v := int16(s * 32767)
		buf[i*2] = byte(v)
		buf[i*2+1] = byte(v >> 8)
	}
	return base64.StdEncoding.EncodeToString(buf)
}

// PlaybackScheduler 无缝播放排期器
// 跟踪累计的下一块开始时间：块到达时立即排在上一块结束处，避免间隙
type PlaybackScheduler struct {
	sampleRate int
	nextStart  time.Time
}

// NewPlaybackScheduler 创建排期器（下行音频用 LiveOutputSampleRate）
func NewPlaybackScheduler(sampleRate int) *PlaybackScheduler {
	return &PlaybackScheduler{sampleRate: sampleRate}
}

// Schedule 为一块 PCM 数据分配开始时间并推进游标
// numBytes 是 16-bit 单声道 PCM 的字节数
func (p *PlaybackScheduler) Schedule(numBytes int, now time.Time) time.Time {
	start := p.nextStart
	if start.Before(now) {
		start = now
	}
	sampleCount := numBytes / 2
	duration := time.Duration(sampleCount) * time.Second / time.Duration(p.sampleRate)
	p.nextStart = start.Add(duration)
	return start
}

// Reset 会话结束/中断后清零游标
func (p *PlaybackScheduler) Reset() {
	p.nextStart = time.Time{}
}
