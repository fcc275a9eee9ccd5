package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Engine level messages (info)
		"Comparison ready: %d frames at %.2f fps":      "比較の準備完了: %d フレーム, %.2f fps",
		"Playback finished":                            "再生が終了しました",
		"Snapshot saved to %s":                         "スナップショットを %s に保存しました",
		"Shutting down":                                "シャットダウン中",

		// Frame source (ffmpeg component)
		"Opened %s: %dx%d, %d frames at %.3f fps":      "%s を開きました: %dx%d, %d フレーム, %.3f fps",
		"ffprobe not found, probing MP4 container directly": "ffprobe が見つからないため、MP4コンテナを直接解析します",

		// Render loop
		"Decode failed at frame %d, freezing last composite": "フレーム %d のデコードに失敗、直前の合成フレームを保持します",
		"Discarding stale render for frame %d":         "古いレンダリング結果 (フレーム %d) を破棄します",
		"Mode changed to %s":                           "モードを %s に変更しました",
		"Offset changed to %d":                         "オフセットを %d に変更しました",

		// Presenter
		"Preview available at http://%s":               "プレビュー: http://%s",
		"Client %s connected":                          "クライアント %s が接続しました",
		"Client %s disconnected":                       "クライアント %s が切断しました",

		// Errors
		"Failed to export snapshot: %s":                "スナップショットの書き出しに失敗しました: %s",
		"Failed to open stream: %s":                    "ストリームを開けませんでした: %s",
	})
}
