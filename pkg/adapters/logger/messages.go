package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Container
		"Opening %s":                          "%s を開いています",
		"Format %s, duration %s, bit rate %d": "フォーマット %s, 再生時間 %s, ビットレート %d",
		"Container backend %s for %s":         "%[2]s のコンテナバックエンド: %[1]s",
		"Closing container: %s":               "コンテナを閉じる際のエラー: %s",
		"Reading packet: %s":                  "パケット読み込みエラー: %s",

		// Streams
		"Stream %d: time base %s, frame rate %s, start time %d, duration %d": "ストリーム %d: タイムベース %s, フレームレート %s, 開始時刻 %d, 長さ %d",
		"Video codec: resolution %d x %d":                                    "映像コーデック: 解像度 %d x %d",
		"Audio codec: channels %d, sample rate %d":                           "音声コーデック: チャンネル数 %d, サンプルレート %d",
		"Other stream: %s":                            "その他のストリーム: %s",
		"Finding the proper decoder for stream %d":    "ストリーム %d に適したデコーダを探しています",
		"Codec %s id %d bit rate %d":                  "コーデック %s ID %d ビットレート %d",
		"Unsupported codec %s in stream %d, skipping": "ストリーム %[2]d のコーデック %[1]s は未対応のためスキップします",
		"Selected video stream %d (%s via %s)":        "映像ストリーム %d を選択しました (%s, %s を使用)",
		"Trying %s for %s":                            "%[2]s に %[1]s を試しています",

		// Decoding
		"Closing decoder: %s":                                                       "デコーダを閉じる際のエラー: %s",
		"Processing up to %d video packets":                                         "最大 %d 個の映像パケットを処理します",
		"Sending packet: pts %d, dts %d, size %d bytes":                             "パケット送信: pts %d, dts %d, サイズ %d バイト",
		"Frame %d (type=%c, size=%d bytes, format=%s) pts %d key frame %d [DTS %d]": "フレーム %d (タイプ=%c, サイズ=%d バイト, フォーマット=%s) pts %d キーフレーム %d [DTS %d]",
		"Frame format is %s, not yuv420p: the image may not be true grayscale":      "フレームのフォーマットが yuv420p ではなく %s です: 正しいグレースケール画像にならない可能性があります",
		"Wrote %s": "%s を書き出しました",
		"Processed %d video packets, wrote %d frames": "%d 個の映像パケットを処理し、%d フレームを書き出しました",

		// Driver
		"State %s -> %s":         "状態 %s -> %s",
		"Failed in state %s: %s": "状態 %s で失敗しました: %s",
	})
}
