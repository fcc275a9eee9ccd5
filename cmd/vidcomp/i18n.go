// Package main provides localization for the vidcomp CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Root command
		"Compare two video files frame by frame.": "2つの動画ファイルをフレーム単位で比較します。",

		// Compare command
		"Compare two videos interactively in the browser.": "ブラウザで2つの動画をインタラクティブに比較",

		// Snapshot command
		"Export a single composited frame to an image file.": "合成フレーム1枚を画像ファイルに書き出し",
		"Snapshot saved to %s": "スナップショットを %s に保存しました",

		// Probe command
		"Print stream metadata for a video file.": "動画ファイルのストリーム情報を表示",
		"%s: %dx%d, %d frames, %.2f fps":          "%s: %dx%d, %d フレーム, %.2f fps",

		// Version command
		"Show version information.": "バージョン情報を表示",
		"vidcomp version %s":        "vidcomp バージョン %s",

		// Flags
		"First video file (reference).":                             "1つ目の動画ファイル（基準）",
		"Second video file (comparison).":                           "2つ目の動画ファイル（比較対象）",
		"YAML configuration file.":                                  "YAML設定ファイル",
		"Comparison mode.":                                          "比較モード",
		"Frame offset applied to the second video (may be negative).": "2つ目の動画に適用するフレームオフセット（負も可）",
		"Overlay opacity (0 = only A, 1 = only B).":                 "オーバーレイの不透明度（0 = Aのみ、1 = Bのみ）",
		"Side-by-side split position as a fraction of width.":       "左右分割位置（幅に対する割合）",
		"Hide filename labels on the composite.":                    "合成画面のファイル名ラベルを非表示",
		"Canvas width (default: larger of the two inputs).":         "キャンバスの幅（デフォルト: 大きい方の入力）",
		"Canvas height (default: larger of the two inputs).":        "キャンバスの高さ（デフォルト: 大きい方の入力）",
		"Playback rate (default: mean of the two native rates).":    "再生レート（デフォルト: 2つの動画の平均）",
		"Path to ffmpeg executable.":                                "ffmpeg実行ファイルのパス",
		"Path to ffprobe executable.":                               "ffprobe実行ファイルのパス",
		"Address for the preview server.":                           "プレビューサーバーのアドレス",
		"JPEG quality for streamed preview frames.":                 "配信フレームのJPEG品質",
		"Directory for snapshots taken from the preview page.":      "プレビューページからのスナップショット保存先",
		"Master frame index to export.":                             "書き出すマスターフレーム番号",
		"Output image path (.png, .jpg).":                           "出力画像のパス（.png, .jpg）",
		"Video file to probe.":                                      "情報を表示する動画ファイル",
		"Enable debug output.":                                      "デバッグ出力を有効化",
		"Directory for debug output.":                               "デバッグ出力のディレクトリ",
		"Log level (debug, info, warn, error).":                     "ログレベル（debug, info, warn, error）",
		"Suppress all log output.":                                  "全てのログ出力を抑制",

		// Runtime messages
		"Interrupted, shutting down...": "中断されました。シャットダウン中...",
	})
}
